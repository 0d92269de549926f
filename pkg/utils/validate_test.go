package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("jane@example.com"))
	assert.True(t, IsValidEmail("j.doe+tag@sub.example.co"))
	assert.False(t, IsValidEmail("jane@"))
	assert.False(t, IsValidEmail("jane"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("jane@example"))
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("555-123-4567"))
	assert.True(t, IsValidPhone("+1 (555) 123.4567"))
	assert.False(t, IsValidPhone("12345"))
	assert.False(t, IsValidPhone("555-123-4567 ext 9999999"))
	assert.False(t, IsValidPhone("call me"))
}

func TestIsValidMissionID(t *testing.T) {
	assert.True(t, IsValidMissionID("DBM1"))
	assert.True(t, IsValidMissionID("DBM123456"))
	assert.False(t, IsValidMissionID("dbm123"))
	assert.False(t, IsValidMissionID("DBM"))
	assert.False(t, IsValidMissionID("DBM12x"))
	assert.False(t, IsValidMissionID("XDBM12"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("  hello  "))
	assert.Equal(t, "hello world", SanitizeText("hello <b>world</b>"))
	assert.Equal(t, "alert(1)", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "", SanitizeText("  <br/>  "))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail(" Jane@Example.COM "))
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "sleepysquid.com", EmailDomain("ops@SleepySquid.com"))
	assert.Equal(t, "", EmailDomain("no-at-sign"))
	assert.Equal(t, "", EmailDomain("trailing@"))
}
