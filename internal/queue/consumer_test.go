package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artgalerie/gallery-api/internal/mailer"
)

// Publisher and consumer must agree on the queue name; it is part of
// the broker contract, not an implementation detail.
func TestReservationQueueNameIsStable(t *testing.T) {
	assert.Equal(t, "reservation.created", ReservationQueueName)
}

func TestHandleMessageAppendsLogLine(t *testing.T) {
	t.Chdir(t.TempDir())

	body, err := json.Marshal(ReservationCreatedEvent{
		EventID:       "b1f2",
		ReservationID: 7,
		ArtworkID:     3,
		ArtworkTitle:  "Blue Hour",
		FullName:      "Nora Berg",
		Email:         "nora@example.com",
		Quantity:      2,
		Status:        "pending",
		CreatedAt:     "2026-02-01T10:00:00Z",
	})
	assert.NoError(t, err)

	// disabled mailer: delivery is skipped, the log line still lands
	assert.NoError(t, handleMessage(body, mailer.New("", "", "", "", "")))

	raw, err := os.ReadFile(filepath.Join("logs", "reservations.log"))
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "reservation_id=7")
	assert.Contains(t, string(raw), `artwork="Blue Hour"`)
}

func TestHandleMessageRejectsMalformedBody(t *testing.T) {
	t.Chdir(t.TempDir())

	err := handleMessage([]byte("{not json"), mailer.New("", "", "", "", ""))
	assert.ErrorContains(t, err, "unmarshal")
}
