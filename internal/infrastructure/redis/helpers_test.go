package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// newTestClient starts a miniredis server and wraps it in a Client.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}
