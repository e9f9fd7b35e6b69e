package models_test

import (
	"reflect"
	"testing"

	"civicreport/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_NormalizesIdentifiers verifies that the hook trims and lowercases username and email.
func TestUserBeforeCreate_NormalizesIdentifiers(t *testing.T) {
	// Arrange
	user := &models.User{
		Username: "  Mario.Rossi ",
		Email:    "Mario.Rossi@Comune.Torino.IT",
		Role:     models.RoleCitizen,
	}

	// Act - Call the hook directly (GORM would call this automatically)
	err := user.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "mario.rossi", user.Username)
	assert.Equal(t, "mario.rossi@comune.torino.it", user.Email)
}

// TestUserBeforeCreate_RejectsUnknownRole verifies that an unknown role never reaches the database.
func TestUserBeforeCreate_RejectsUnknownRole(t *testing.T) {
	user := &models.User{Username: "ghost", Email: "ghost@example.com", Role: "JANITOR"}

	err := user.BeforeCreate(nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JANITOR")
}

// TestUserBeforeCreate_RequiresUsername verifies that blank usernames are rejected.
func TestUserBeforeCreate_RequiresUsername(t *testing.T) {
	user := &models.User{Username: "   ", Email: "x@example.com", Role: models.RoleCitizen}

	assert.Error(t, user.BeforeCreate(nil))
}

// TestUserStructTags verifies that struct tags are correctly defined for GORM and JSON.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	idField, found := userType.FieldByName("ID")
	assert.True(t, found, "ID field should exist")
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey", "ID should be marked as primary key")

	pwField, found := userType.FieldByName("PasswordHash")
	assert.True(t, found)
	assert.Equal(t, "-", pwField.Tag.Get("json"), "password hash must never be serialized")

	officesField, found := userType.FieldByName("Offices")
	assert.True(t, found)
	assert.Contains(t, officesField.Tag.Get("gorm"), "many2many:user_offices", "offices use a join table")
}

// TestRole_Predicates checks the role helpers over every role.
func TestRole_Predicates(t *testing.T) {
	tests := []struct {
		role       models.Role
		valid      bool
		hasOffices bool
	}{
		{models.RoleCitizen, true, false},
		{models.RoleTechnicalStaff, true, true},
		{models.RolePublicRelationsOfficer, true, true},
		{models.RoleMunicipalAdministrator, true, true},
		{models.RoleExternalMaintainer, true, false},
		{models.RoleAdministrator, true, true},
		{models.Role("MAYOR"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.hasOffices, tt.role.HasOffices())
		})
	}
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Anna Bianchi", (&models.User{FirstName: "Anna", LastName: "Bianchi"}).FullName())
	assert.Equal(t, "Anna", (&models.User{FirstName: "Anna"}).FullName())
}

// BenchmarkUserBeforeCreate measures the normalization hook.
func BenchmarkUserBeforeCreate(b *testing.B) {
	user := &models.User{Role: models.RoleCitizen}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		user.Username = " Benchmark_User "
		user.Email = " Bench@Example.com "
		_ = user.BeforeCreate(nil)
	}
}
