// internal/model/contact.go
package model

type Contact struct {
	ID     string `json:"$id,omitempty"`
	Name   string `json:"name"`
	Number string `json:"number"`
}
