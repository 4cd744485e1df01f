package model

import "fmt"

// Store keys owned by one browser session.
const (
	sessionCartKey       = "cart"
	sessionTokenKey      = "token"
	sessionUserKey       = "user"
	sessionAdminTokenKey = "admin_token"
)

func sessionKey(sessionID, name string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, name)
}

func CartKey(sessionID string) string       { return sessionKey(sessionID, sessionCartKey) }
func TokenKey(sessionID string) string      { return sessionKey(sessionID, sessionTokenKey) }
func UserKey(sessionID string) string       { return sessionKey(sessionID, sessionUserKey) }
func AdminTokenKey(sessionID string) string { return sessionKey(sessionID, sessionAdminTokenKey) }

// Customer is the delivery information collected at checkout.
type Customer struct {
	Name     string `json:"customer_name"`
	Email    string `json:"customer_email"`
	Phone    string `json:"customer_phone"`
	Location string `json:"customer_location"`
}
