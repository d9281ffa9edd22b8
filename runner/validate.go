package runner

import (
	"fmt"

	"awareid-qa/client"
)

// RequireField требует присутствия непустого строкового поля в ответе.
func RequireField(name string) Validator {
	return func(resp *client.Response) []string {
		if _, err := resp.Field(name); err != nil {
			return []string{err.Error()}
		}
		return nil
	}
}

// RequireFieldLen дополнительно проверяет точную длину значения поля.
func RequireFieldLen(name string, length int) Validator {
	return func(resp *client.Response) []string {
		value, err := resp.Field(name)
		if err != nil {
			return []string{err.Error()}
		}
		if len(value) != length {
			return []string{fmt.Sprintf("поле %q имеет длину %d, ожидалась %d", name, len(value), length)}
		}
		return nil
	}
}

// ValidateEnrollmentToken проверяет контракт ответа /enroll.
func ValidateEnrollmentToken(resp *client.Response) []string {
	return RequireField("enrollmentToken")(resp)
}

// ValidateRegistrationCode проверяет контракт ответа /addFace.
func ValidateRegistrationCode(resp *client.Response) []string {
	return RequireField("registrationCode")(resp)
}

// ValidateAuthToken проверяет контракт ответа /authenticate.
func ValidateAuthToken(resp *client.Response) []string {
	return RequireField("authToken")(resp)
}
