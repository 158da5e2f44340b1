package models

import (
	"testing"

	"github.com/devberatzengin/LoclLock/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_Validate(t *testing.T) {
	valid := Account{Site: "github.com", Username: "octo", EncryptedPassword: "v1:abc"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		mut   func(a *Account)
		field string
	}{
		{"blank site", func(a *Account) { a.Site = "   " }, "site"},
		{"empty username", func(a *Account) { a.Username = "" }, "username"},
		{"empty ciphertext", func(a *Account) { a.EncryptedPassword = "" }, "encrypted_password"},
		{"negative category", func(a *Account) { a.CategoryID = -1 }, "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mut(&a)
			err := a.Validate()
			require.ErrorIs(t, err, common.ErrValidation)

			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestAccount_NormalizeAndIdentity(t *testing.T) {
	a := Account{Site: "  GitHub.com ", Username: " Octo\t"}
	a.Normalize()
	assert.Equal(t, "GitHub.com", a.Site)
	assert.Equal(t, "Octo", a.Username)

	assert.True(t, a.SameIdentity("github.com", "octo"))
	assert.False(t, a.SameIdentity("github.com", "other"))
}

func TestCategory_Validate(t *testing.T) {
	assert.NoError(t, (&Category{Name: "Work"}).Validate())
	assert.NoError(t, (&Category{Name: "İş"}).Validate())
	assert.ErrorIs(t, (&Category{Name: ""}).Validate(), common.ErrValidation)
	assert.ErrorIs(t, (&Category{Name: " x "}).Validate(), common.ErrValidation)
}
