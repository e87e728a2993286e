package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pynezz/gungnir/pkg/types"
)

func TestSelectQuick(t *testing.T) {
	s := NewSelector(DefaultCatalogs())

	payloads := s.Select(types.ScanTypeQuick, nil)
	require.Len(t, payloads, 3)
	assert.Equal(t, basicPayloads[:3], payloads)
}

func TestSelectComprehensive(t *testing.T) {
	s := NewSelector(DefaultCatalogs())

	payloads := s.Select(types.ScanTypeComprehensive, nil)
	require.Len(t, payloads, 15)

	// Fixed order: basic, advanced, evasion
	assert.Equal(t, basicPayloads, payloads[:5])
	assert.Equal(t, advancedPayloads, payloads[5:10])
	assert.Equal(t, evasionPayloads, payloads[10:])
}

func TestSelectCustom(t *testing.T) {
	s := NewSelector(DefaultCatalogs())

	custom := []string{"<script>probe()</script>", "plain"}
	assert.Equal(t, custom, s.Select(types.ScanTypeCustom, custom))

	// An empty custom list selects nothing, it does not fall back
	assert.Empty(t, s.Select(types.ScanTypeCustom, []string{}))
}

func TestSelectUnknownType(t *testing.T) {
	s := NewSelector(DefaultCatalogs())
	assert.Nil(t, s.Select("aggressive", nil))
}

func TestSelectorCatalogOverride(t *testing.T) {
	s := NewSelector(Catalogs{Basic: []string{"<svg onload=probe()>"}})

	payloads := s.Select(types.ScanTypeQuick, nil)
	require.Len(t, payloads, 1)
	assert.Equal(t, "<svg onload=probe()>", payloads[0])

	// Missing catalogs fall back to the built-ins
	assert.Len(t, s.Select(types.ScanTypeComprehensive, nil), 11)
}

func TestSelectReturnsCopy(t *testing.T) {
	s := NewSelector(DefaultCatalogs())

	payloads := s.Select(types.ScanTypeQuick, nil)
	payloads[0] = "mutated"

	assert.Equal(t, basicPayloads[:3], s.Select(types.ScanTypeQuick, nil))
}
