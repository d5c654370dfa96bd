package dto

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/account-portal/internal/domain"
)

func postForm(target string, v url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestDecodeSignupForm(t *testing.T) {
	r := postForm("/signup/", url.Values{
		"full_name":        {"Jane Doe"},
		"email":            {"jane@example.com"},
		"phone_number":     {"0123456789"},
		"password":         {"s3cretpass"},
		"confirm_password": {"s3cretpass"},
	})

	f, err := DecodeSignupForm(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", f.FullName)
	assert.Equal(t, "jane@example.com", f.Email)
	assert.Equal(t, "0123456789", f.PhoneNumber)
	assert.Equal(t, "s3cretpass", f.Password)
	assert.Equal(t, "s3cretpass", f.ConfirmPassword)
}

func TestDecodeSignupForm_TooLarge(t *testing.T) {
	big := strings.Repeat("a", MaxFormBytes+10)
	r := postForm("/signup/", url.Values{"full_name": {big}})

	_, err := DecodeSignupForm(httptest.NewRecorder(), r)
	require.Error(t, err)
	assert.True(t, domain.Is(err, "invalid_form"))
}

func TestDecodeLoginForm_NextFromBodyOrQuery(t *testing.T) {
	r := postForm("/", url.Values{"username": {"a@b.co"}, "password": {"x"}, "next": {"/dashboard/"}})
	req, err := DecodeLoginForm(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", req.Form.Username)
	assert.Equal(t, "x", req.Form.Password)
	assert.Equal(t, "/dashboard/", req.Next)

	r = postForm("/?next=%2Fsuccess%2F", url.Values{"username": {"a@b.co"}})
	req, err = DecodeLoginForm(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, "/success/", req.Next)
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     DefaultAfterLogin,
		"/dashboard/":          "/dashboard/",
		"/dashboard/?tab=1":    "/dashboard/?tab=1",
		"//evil.example":       DefaultAfterLogin,
		"/\\evil.example":      DefaultAfterLogin,
		"https://evil.example": DefaultAfterLogin,
		"dashboard":            DefaultAfterLogin,
		"/x\r\nSet-Cookie: a":  DefaultAfterLogin,
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeNext(in), in)
	}
}
