package dto

import (
	"testing"

	"campus-wallet/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Email:    "  alice@campus.edu  ",
		Password: "  pass1234  ",
		FullName: " Alice Nguyen ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice@campus.edu", req.Email)
	assert.Equal(t, "pass1234", req.Password)
	assert.Equal(t, "Alice Nguyen", req.FullName)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterRequest{
		Email:    "bob@campus.edu",
		Password: "password123",
		FullName: "Bob <script>alert('x')</script>",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.FullName, "&lt;script&gt;")
	assert.NotContains(t, req.FullName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	type withPtr struct {
		Note *string
	}
	note := "  trimmed  "
	v := withPtr{Note: &note}
	SanitizeStruct(&v)

	assert.Equal(t, "trimmed", *v.Note)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	type withPtr struct {
		Note *string
	}
	v := withPtr{}
	SanitizeStruct(&v)
	assert.Nil(t, v.Note)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestAccountTypeValidator_KnownRoles(t *testing.T) {
	cases := []string{"USER", "CASHIER", "CASH_TOP_UP", "ADMIN", "SUPER_ADMIN"}
	for _, tc := range cases {
		assert.True(t, domain.AccountType(tc).IsValid(), "expected valid: %s", tc)
	}
}

func TestAccountTypeValidator_UnknownRoles(t *testing.T) {
	cases := []string{
		"OWNER",
		"user", // case-sensitive
		"",
		"ADMIN ", // trailing space
		"ROOT",
	}
	for _, tc := range cases {
		assert.False(t, domain.AccountType(tc).IsValid(), "expected invalid: %s", tc)
	}
}
