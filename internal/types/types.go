package types

import (
	"fmt"
	"strings"
)

// SourceMode selects which provider populates a collection
type SourceMode string

const (
	SourceLocal  SourceMode = "local"
	SourceRemote SourceMode = "remote"
)

// ParseSourceMode parses a mode name; "api" is accepted as an alias of remote
func ParseSourceMode(s string) (SourceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return SourceLocal, nil
	case "remote", "api":
		return SourceRemote, nil
	default:
		return "", fmt.Errorf("unknown source mode %q (use local or remote)", s)
	}
}

// Gender of a person record
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// GenderFilter values accepted by the person filter; GenderAll disables the predicate
const GenderAll = "all"

// Product is a catalog item as served by the origin
type Product struct {
	ID                 int      `json:"id" yaml:"id"`
	Title              string   `json:"title" yaml:"title"`
	Description        string   `json:"description" yaml:"description"`
	Price              float64  `json:"price" yaml:"price"`
	DiscountPercentage float64  `json:"discountPercentage" yaml:"discountPercentage"`
	Rating             float64  `json:"rating" yaml:"rating"`
	Stock              int      `json:"stock" yaml:"stock"`
	Brand              string   `json:"brand" yaml:"brand"`
	Category           string   `json:"category" yaml:"category"`
	Thumbnail          string   `json:"thumbnail" yaml:"thumbnail"`
	Images             []string `json:"images" yaml:"images"`
}

// Address is embedded in a user record
type Address struct {
	Address    string `json:"address" yaml:"address"`
	City       string `json:"city" yaml:"city"`
	PostalCode string `json:"postalCode" yaml:"postalCode"`
	State      string `json:"state" yaml:"state"`
}

// User is a person record as served by the origin
type User struct {
	ID        int     `json:"id" yaml:"id"`
	FirstName string  `json:"firstName" yaml:"firstName"`
	LastName  string  `json:"lastName" yaml:"lastName"`
	Age       int     `json:"age" yaml:"age"`
	Gender    Gender  `json:"gender" yaml:"gender"`
	Email     string  `json:"email" yaml:"email"`
	Phone     string  `json:"phone" yaml:"phone"`
	Username  string  `json:"username" yaml:"username"`
	BirthDate string  `json:"birthDate" yaml:"birthDate"`
	Image     string  `json:"image" yaml:"image"`
	Address   Address `json:"address" yaml:"address"`
}

// FullName returns "first last"
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Todo is a task record; only the gateway and the todos command use it
type Todo struct {
	ID        int    `json:"id" yaml:"id"`
	Todo      string `json:"todo" yaml:"todo"`
	Completed bool   `json:"completed" yaml:"completed"`
	UserID    int    `json:"userId" yaml:"userId"`
}

// ProductPage is the response of GET /products
type ProductPage struct {
	Products []Product `json:"products" yaml:"products"`
	Total    int       `json:"total" yaml:"total"`
	Skip     int       `json:"skip" yaml:"skip"`
	Limit    int       `json:"limit" yaml:"limit"`
}

// UserPage is the response of GET /users
type UserPage struct {
	Users []User `json:"users" yaml:"users"`
	Total int    `json:"total" yaml:"total"`
	Skip  int    `json:"skip" yaml:"skip"`
	Limit int    `json:"limit" yaml:"limit"`
}

// TodoPage is the response of GET /todos
type TodoPage struct {
	Todos []Todo `json:"todos" yaml:"todos"`
	Total int    `json:"total" yaml:"total"`
	Skip  int    `json:"skip" yaml:"skip"`
	Limit int    `json:"limit" yaml:"limit"`
}
