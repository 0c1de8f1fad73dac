package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relationmap/domain/events"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*eventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func pointEvents(n int) []events.DomainEvent {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]events.DomainEvent, n)
	for i := range out {
		out[i] = events.NewPointCreated(fmt.Sprintf("p%d", i), "Alice", "person", at)
	}
	return out
}

func TestPublisher_PublishBatchChunksByTen(t *testing.T) {
	// Arrange
	api := &mockAPI{}
	api.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 10
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()
	api.On("PutEvents", mock.Anything, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
		return len(in.Entries) == 3
	})).Return(&eventbridge.PutEventsOutput{}, nil).Once()
	p := NewPublisher(api, "bus", zap.NewNop())

	// Act
	err := p.PublishBatch(context.Background(), pointEvents(13))

	// Assert
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestPublisher_PublishEntryShape(t *testing.T) {
	api := &mockAPI{}
	var captured *eventbridge.PutEventsInput
	api.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*eventbridge.PutEventsInput) }).
		Return(&eventbridge.PutEventsOutput{}, nil)
	p := NewPublisher(api, "bus", zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), pointEvents(1)[0]))

	require.Len(t, captured.Entries, 1)
	entry := captured.Entries[0]
	assert.Equal(t, "bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypePointCreated, aws.ToString(entry.DetailType))

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "p0", detail["aggregate_id"])
	assert.Equal(t, "Alice", detail["name"])
}

func TestPublisher_Failures(t *testing.T) {
	tests := []struct {
		name   string
		output *eventbridge.PutEventsOutput
		err    error
	}{
		{name: "client error", err: errors.New("boom")},
		{
			name: "failed entries",
			output: &eventbridge.PutEventsOutput{
				FailedEntryCount: 1,
				Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			api.On("PutEvents", mock.Anything, mock.Anything).Return(tt.output, tt.err)
			p := NewPublisher(api, "bus", zap.NewNop())

			err := p.Publish(context.Background(), pointEvents(1)[0])

			assert.Error(t, err)
		})
	}
}
