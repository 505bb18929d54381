package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/creditrisk/internal/application/dto"
	"github.com/bibbank/creditrisk/internal/domain/event"
	"github.com/bibbank/creditrisk/internal/domain/model"
	"github.com/bibbank/creditrisk/pkg/events"
	pkgkafka "github.com/bibbank/creditrisk/pkg/kafka"
	"github.com/bibbank/creditrisk/pkg/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingProducer struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (p *recordingProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.topic = topic
	p.messages = append(p.messages, messages...)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewPublisher(producer, "creditrisk.events", testLogger())

	assessmentID := uuid.New()
	evt := event.NewAssessmentCompleted(
		assessmentID, testutil.TestTenantID, testutil.TestApplicationID,
		19.6, "LOW", "APPROVE", 4, testutil.FixedTime(),
	)

	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "creditrisk.events", producer.topic)
	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, assessmentID.String(), string(msg.Key))
	assert.Equal(t, event.EventTypeAssessmentCompleted, msg.Headers["event_type"])
	assert.Equal(t, testutil.TestTenantID.String(), msg.Headers["tenant_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, event.EventTypeAssessmentCompleted, body["event_type"])
	assert.Equal(t, assessmentID.String(), body["aggregate_id"])
}

func TestPublisher_NoEvents(t *testing.T) {
	producer := &recordingProducer{err: errors.New("should not be called")}
	pub := NewPublisher(producer, "creditrisk.events", testLogger())

	assert.NoError(t, pub.Publish(context.Background()))
}

func TestPublisher_ProducerError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	pub := NewPublisher(producer, "creditrisk.events", testLogger())

	var evt events.DomainEvent = event.NewHighRiskDetected(
		uuid.New(), testutil.TestTenantID, testutil.TestApplicationID, 91.2, nil, testutil.FixedTime(),
	)
	err := pub.Publish(context.Background(), evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creditrisk.events")
}

type stubAssessor struct {
	got dto.AssessApplicantRequest
	err error
}

func (s *stubAssessor) Execute(_ context.Context, req dto.AssessApplicantRequest) (dto.AssessmentResponse, error) {
	s.got = req
	if s.err != nil {
		return dto.AssessmentResponse{}, s.err
	}
	return dto.AssessmentResponse{ID: uuid.New(), RiskTier: "LOW"}, nil
}

func TestApplicationHandler_Handle(t *testing.T) {
	payload, err := json.Marshal(dto.AssessApplicantRequest{
		TenantID:      testutil.TestTenantID,
		ApplicationID: testutil.TestApplicationID,
		Applicant: dto.ApplicantRequest{
			Name:        "Kim",
			CreditLimit: 40000,
			Age:         29,
		},
	})
	require.NoError(t, err)

	t.Run("assesses a decoded application", func(t *testing.T) {
		assessor := &stubAssessor{}
		h := NewApplicationHandler(assessor, testLogger())

		require.NoError(t, h.Handle(context.Background(), pkgkafka.Message{Value: payload}))
		assert.Equal(t, testutil.TestApplicationID, assessor.got.ApplicationID)
		assert.Equal(t, "Kim", assessor.got.Applicant.Name)
		assert.InDelta(t, 40000.0, assessor.got.Applicant.CreditLimit, 1e-9)
	})

	t.Run("drops malformed payloads", func(t *testing.T) {
		assessor := &stubAssessor{}
		h := NewApplicationHandler(assessor, testLogger())

		assert.NoError(t, h.Handle(context.Background(), pkgkafka.Message{Value: []byte("{not json")}))
		assert.Equal(t, dto.AssessApplicantRequest{}, assessor.got)
	})

	t.Run("drops invalid applications", func(t *testing.T) {
		h := NewApplicationHandler(&stubAssessor{err: model.ErrValidation}, testLogger())
		assert.NoError(t, h.Handle(context.Background(), pkgkafka.Message{Value: payload}))
	})

	t.Run("returns other failures for redelivery", func(t *testing.T) {
		h := NewApplicationHandler(&stubAssessor{err: errors.New("database unavailable")}, testLogger())
		assert.Error(t, h.Handle(context.Background(), pkgkafka.Message{Value: payload}))
	})
}
