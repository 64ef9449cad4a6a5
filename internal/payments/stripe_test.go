package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{4500, 450000},
		{99.99, 9999},
		{1234.56, 123456},
		{0.01, 1},
		{0.004, 0},
		{19.999, 2000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MinorUnits(tc.amount), "amount %v", tc.amount)
	}
}

// signHeader подписывает payload так же, как это делает Stripe:
// HMAC-SHA256 от "<timestamp>.<payload>" общим секретом.
func signHeader(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

const checkoutCompletedPayload = `{
	"id": "evt_test_1",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_test_9",
			"metadata": {"proposal_id": "tok-abc"}
		}
	}
}`

func TestParseWebhookValidSignature(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}
	payload := []byte(checkoutCompletedPayload)

	ev, relevant, err := g.ParseWebhook(payload, signHeader(payload, "whsec_test"))
	require.NoError(t, err)
	assert.True(t, relevant)
	assert.Equal(t, "tok-abc", ev.ProposalID)
	assert.Equal(t, "cs_test_9", ev.SessionID)
}

func TestParseWebhookWrongSecret(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}
	payload := []byte(checkoutCompletedPayload)

	_, _, err := g.ParseWebhook(payload, signHeader(payload, "whsec_other"))
	assert.Error(t, err, "чужая подпись должна отвергаться")
}

func TestParseWebhookIrrelevantEvent(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}
	payload := []byte(`{"id": "evt_test_2", "type": "invoice.created", "data": {"object": {}}}`)

	_, relevant, err := g.ParseWebhook(payload, signHeader(payload, "whsec_test"))
	require.NoError(t, err)
	assert.False(t, relevant)
}

func TestParseWebhookMissingCorrelationID(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}
	payload := []byte(`{
		"id": "evt_test_3",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_10", "metadata": {}}}
	}`)

	ev, relevant, err := g.ParseWebhook(payload, signHeader(payload, "whsec_test"))
	require.NoError(t, err)
	assert.True(t, relevant)
	assert.Empty(t, ev.ProposalID, "отсутствующий correlation id доходит до контроллера пустым")
	assert.Equal(t, "cs_test_10", ev.SessionID)
}
