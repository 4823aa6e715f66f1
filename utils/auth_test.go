package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("Secret#123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "Secret#123" {
		t.Fatal("password stored in cleartext")
	}
	if !CheckPassword(hashed, "Secret#123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hashed, "secret#123") {
		t.Error("wrong password accepted")
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"01234567890", "99999999999"}
	invalid := []string{"", "123", "0123456789", "012345678901", "0123456789a", "+2001234567"}
	for _, phone := range valid {
		if !IsValidPhone(phone) {
			t.Errorf("IsValidPhone(%q) = false, want true", phone)
		}
	}
	for _, phone := range invalid {
		if IsValidPhone(phone) {
			t.Errorf("IsValidPhone(%q) = true, want false", phone)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	strong := []string{"Secret#123", "a1b2c3d!", "pass-word9"}
	weak := []string{"short#1", "nodigits!", "n0symbols", "12345678!"}
	for _, pw := range strong {
		if !IsStrongPassword(pw) {
			t.Errorf("IsStrongPassword(%q) = false, want true", pw)
		}
	}
	for _, pw := range weak {
		if IsStrongPassword(pw) {
			t.Errorf("IsStrongPassword(%q) = true, want false", pw)
		}
	}
}
