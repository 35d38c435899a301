package service

import "github.com/Raj051299/cms-mobile-app/internal/cms/types"

func requireSession(sess types.Session) error {
	if !sess.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireAdmin(sess types.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !sess.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// AuthorizeAttendanceView gates the attendance views: any signed-in user may
// see who has checked in, only admins see the full list with invitations.
func AuthorizeAttendanceView(sess types.Session, checkedInOnly bool) error {
	if checkedInOnly {
		return requireSession(sess)
	}
	return requireAdmin(sess)
}
