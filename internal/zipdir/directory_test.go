package zipdir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceable(t *testing.T) {
	assert.True(t, Serviceable("57072"))
	assert.True(t, Serviceable(" 57072 "))
	assert.False(t, Serviceable("99999"))
	assert.False(t, Serviceable(""))
}

func TestCanonicalCity(t *testing.T) {
	city, ok := CanonicalCity("57072")
	assert.True(t, ok)
	assert.Equal(t, "Siegen", city)

	_, ok = CanonicalCity("10115")
	assert.False(t, ok)
}

func TestCityMatches(t *testing.T) {
	assert.True(t, CityMatches("57072", "Siegen"))
	assert.True(t, CityMatches("57072", "siegen"))
	assert.True(t, CityMatches("57072", "  SIEGEN  "))
	assert.True(t, CityMatches("57319", "bad berleburg"))
	assert.False(t, CityMatches("57072", "Kreuztal"))
	assert.False(t, CityMatches("99999", "Siegen"))
}
