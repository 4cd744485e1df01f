package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Product is the catalog record served by GET /products.
type Product struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Price       float64           `json:"price"`
	ImageURL    string            `json:"image_url"`
	Stock       int               `json:"stock"`
	CategoryID  *uint             `json:"category_id"`
	IsFeatured  bool              `json:"is_featured"`
	Specs       map[string]string `json:"specs"`
	CreatedAt   Time              `json:"created_at"`
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	CategoryID  *uint             `json:"category_id"`
	ImageURL    string            `json:"image_url"`
	Stock       int               `json:"stock"`
	IsFeatured  bool              `json:"is_featured"`
	Specs       map[string]string `json:"specs"`
}

type Category struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type CategoryInput struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type Banner struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	ImageURL   string `json:"image_url"`
	Link       string `json:"link"`
	IsActive   bool   `json:"is_active"`
	OrderIndex int    `json:"order_index"`
}

type BannerInput struct {
	Title      string `json:"title"`
	ImageURL   string `json:"image_url"`
	Link       string `json:"link"`
	IsActive   bool   `json:"is_active"`
	OrderIndex int    `json:"order_index"`
}

type About struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type User struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	AuthProvider   string `json:"auth_provider,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is returned by /auth/login and /auth/signup.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

type OrderItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderRequest is the checkout submission for POST /orders.
type OrderRequest struct {
	CustomerName     string      `json:"customer_name"`
	CustomerEmail    string      `json:"customer_email"`
	CustomerPhone    string      `json:"customer_phone"`
	CustomerLocation string      `json:"customer_location"`
	Items            []OrderItem `json:"items"`
	TotalAmount      float64     `json:"total_amount"`
}

type Order struct {
	ID               ID          `json:"id"`
	CustomerName     string      `json:"customer_name"`
	CustomerEmail    string      `json:"customer_email"`
	CustomerPhone    string      `json:"customer_phone"`
	CustomerLocation string      `json:"customer_location"`
	Items            []OrderItem `json:"items"`
	TotalAmount      float64     `json:"total_amount"`
	Status           string      `json:"status"`
	CreatedAt        Time        `json:"created_at"`
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Time accepts the timestamp layouts the backend emits, with or without zone.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// ID is an identifier the backend may send either as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
