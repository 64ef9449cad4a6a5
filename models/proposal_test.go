package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivedPackageNumbers(t *testing.T) {
	p := &Proposal{Tier: TierProfessional}
	assert.Equal(t, 3, p.Trainees())
	assert.Equal(t, 1, p.Kits())

	p.ExtraTrainees = 2
	p.ExtraKits = 1
	assert.Equal(t, 5, p.Trainees())
	assert.Equal(t, 2, p.Kits())
}

func TestValidTier(t *testing.T) {
	assert.True(t, ValidTier(""))
	assert.True(t, ValidTier(TierProfessional))
	assert.True(t, ValidTier(TierRegional))
	assert.True(t, ValidTier(TierEnterprise))
	assert.False(t, ValidTier("platinum"))
}
