package auth

import "github.com/gin-contrib/sessions"

// Session keys. The pending registration and pending login flows use one
// tagged record under shared keys, so starting either flow implicitly clears
// the other and the two can never cross-contaminate within a session.
const (
	sessionKeyUserID    = "auth_user_id"
	sessionKeyFlowKind  = "pending_flow_kind"
	sessionKeyFlowUser  = "pending_flow_user_id"
	sessionKeyFlowEmail = "pending_flow_email"
)

// FlowKind tags the multi-step identity flow a session is in the middle of.
type FlowKind string

const (
	FlowNone         FlowKind = ""
	FlowRegistration FlowKind = "registration"
	FlowLogin        FlowKind = "login"
)

// PendingFlow is the session-scoped record of an in-progress identity flow.
// Email is only set for registration, where the account record does not yet
// carry a confirmed address.
type PendingFlow struct {
	Kind   FlowKind
	UserID uint
	Email  string
}

// SetPendingFlow replaces whatever flow the session was in with the given
// one. The caller is responsible for saving the session.
func SetPendingFlow(s sessions.Session, flow PendingFlow) {
	s.Set(sessionKeyFlowKind, string(flow.Kind))
	s.Set(sessionKeyFlowUser, flow.UserID)
	s.Set(sessionKeyFlowEmail, flow.Email)
}

// GetPendingFlow returns the session's in-progress flow, or a record with
// FlowNone when there is none.
func GetPendingFlow(s sessions.Session) PendingFlow {
	kind, _ := s.Get(sessionKeyFlowKind).(string)
	if FlowKind(kind) == FlowNone {
		return PendingFlow{}
	}
	userID, _ := s.Get(sessionKeyFlowUser).(uint)
	email, _ := s.Get(sessionKeyFlowEmail).(string)
	return PendingFlow{Kind: FlowKind(kind), UserID: userID, Email: email}
}

// ClearPendingFlow removes the pending flow keys. Called on flow completion
// and on abandonment.
func ClearPendingFlow(s sessions.Session) {
	s.Delete(sessionKeyFlowKind)
	s.Delete(sessionKeyFlowUser)
	s.Delete(sessionKeyFlowEmail)
}

// Authenticate promotes the session to an authenticated one for the given
// user and drops any pending flow state.
func Authenticate(s sessions.Session, userID uint) {
	ClearPendingFlow(s)
	s.Set(sessionKeyUserID, userID)
}

// AuthenticatedUser returns the logged-in user id, if any.
func AuthenticatedUser(s sessions.Session) (uint, bool) {
	userID, ok := s.Get(sessionKeyUserID).(uint)
	return userID, ok
}

// Logout clears all identity state from the session.
func Logout(s sessions.Session) {
	ClearPendingFlow(s)
	s.Delete(sessionKeyUserID)
}
