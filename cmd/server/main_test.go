package main

import "testing"

func TestIsWeakSecret(t *testing.T) {
	cases := map[string]bool{
		"short": true,
		"change-me-in-production-please-0123456789": true,
		"k9J2mQ7vX4pL8sT1wZ6rB3nF5hD0cY2aE7uG9iO4":  false,
	}
	for secret, want := range cases {
		if got := isWeakSecret(secret); got != want {
			t.Fatalf("isWeakSecret(%q) want %v got %v", secret, want, got)
		}
	}
}
