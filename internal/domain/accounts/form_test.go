package accounts

import (
	"errors"
	"fmt"
	"testing"

	"denti-directory/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp(t *testing.T) {
	t.Run("short password", func(t *testing.T) {
		_, errs := ValidateSignUp(SignUpForm{Email: "ana@example.com", Password: "abc12", ConfirmPassword: "abc12"})
		assert.Equal(t, msgPasswordTooShort, errs["password"])
	})

	t.Run("mismatch", func(t *testing.T) {
		_, errs := ValidateSignUp(SignUpForm{Email: "ana@example.com", Password: "abc123", ConfirmPassword: "abc124"})
		assert.Equal(t, msgPasswordMismatch, errs["confirmPassword"])
		assert.False(t, errs.Has("password"))
	})

	t.Run("accepted", func(t *testing.T) {
		creds, errs := ValidateSignUp(SignUpForm{Email: " Ana@Example.com ", Password: "abc123", ConfirmPassword: "abc123"})
		require.True(t, errs.Empty(), "%v", errs)
		assert.Equal(t, "ana@example.com", creds.Email)
		assert.Equal(t, "abc123", creds.Password)
	})

	t.Run("bad email", func(t *testing.T) {
		_, errs := ValidateSignUp(SignUpForm{Email: "ana@", Password: "abc123", ConfirmPassword: "abc123"})
		assert.Equal(t, msgInvalidEmail, errs["email"])
		assert.False(t, errs.Has(formKey))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, errs := ValidateSignUp(SignUpForm{})
		assert.Equal(t, msgAllRequired, errs[formKey])
		assert.True(t, errs.Has("email"))
		assert.True(t, errs.Has("password"))
		assert.True(t, errs.Has("confirmPassword"))
	})
}

func TestValidateSignIn(t *testing.T) {
	_, errs := ValidateSignIn(SignInForm{Email: "ana@example.com"})
	assert.Equal(t, msgSignInRequired, errs["password"])
	assert.Equal(t, msgSignInRequired, errs[formKey])

	creds, errs := ValidateSignIn(SignInForm{Email: "ANA@example.com", Password: "x"})
	require.True(t, errs.Empty())
	assert.Equal(t, "ana@example.com", creds.Email)
}

func TestMessageFor(t *testing.T) {
	wrapped := fmt.Errorf("signin: %w", auth.NewError(auth.CodeWrongPassword))
	assert.Equal(t, "Correo electrónico o contraseña incorrectos.", MessageFor(wrapped))
	assert.Equal(t, "Demasiados intentos fallidos. Intenta más tarde.", MessageFor(auth.NewError(auth.CodeTooManyRequests)))
	assert.Contains(t, MessageFor(auth.NewError(auth.CodeEmailAlreadyInUse)), "ya está registrado")
	assert.Contains(t, MessageFor(auth.NewError(auth.CodeWeakPassword)), "demasiado débil")
	assert.Equal(t, msgUnexpected, MessageFor(errors.New("boom")))
	assert.Empty(t, MessageFor(nil))
}
