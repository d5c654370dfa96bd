package account

import "context"

// Logout revokes the session behind token. An empty token is a no-op,
// as is revoking a session that already expired.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	// Resolve first only to attribute the audit line.
	accountID, _ := s.sessions.Lookup(ctx, token)

	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	if accountID != "" {
		s.audit.LoggedOut(ctx, accountID)
	}
	return nil
}
