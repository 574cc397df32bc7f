package validator

import (
	"errors"
	"net/mail"
	"strings"
)

// Email checks that the address is parseable and a bare address, not a
// display-name form. The panel creates end-user accounts, so unlike a
// corporate signup flow there is no domain allow-list here.
func Email(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("Geçersiz e-posta adresi")
	}
	if addr.Address != strings.TrimSpace(email) {
		return errors.New("Geçersiz e-posta adresi")
	}
	return nil
}
