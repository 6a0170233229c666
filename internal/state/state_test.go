package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_Expectations(t *testing.T) {
	conv := New("sender-1")

	conv.ExpectAction("/orders/confirm")
	assert.Equal(t, "/orders/confirm", conv.ExpectedAction)

	conv.ExpectKeyword("  Yes  Please ", "/orders/confirm")
	conv.ExpectKeyword("no", "/orders/cancel")

	assert.Equal(t, "/orders/confirm", conv.MatchKeyword("yes please"))
	assert.Equal(t, "/orders/cancel", conv.MatchKeyword("no"))
	assert.Equal(t, "", conv.MatchKeyword("maybe"))

	conv.ClearExpectations()
	assert.Empty(t, conv.ExpectedAction)
	assert.Equal(t, "", conv.MatchKeyword("yes please"))
}

func TestConversation_MatchKeywordEmpty(t *testing.T) {
	conv := New("sender-1")
	assert.Equal(t, "", conv.MatchKeyword("anything"))
}
