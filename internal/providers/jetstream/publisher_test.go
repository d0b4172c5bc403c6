package jetstream_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendblocks/custom-indexer-example/internal/adapter"
	"github.com/sendblocks/custom-indexer-example/internal/domain"
	"github.com/sendblocks/custom-indexer-example/internal/logger"
	"github.com/sendblocks/custom-indexer-example/internal/messaging"
	"github.com/sendblocks/custom-indexer-example/internal/mocks"
	"github.com/sendblocks/custom-indexer-example/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func testTriggerMessage() domain.TriggerMessage {
	return domain.TriggerMessage{
		ID:      "msg-1",
		Trigger: "cryptokitties",
		Log: domain.RawLog{
			ContractAddress: "0x06012c8cf97bEaD5deAe237070F9587f8E7A266d",
			Topics: []string{
				"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
				"0x0000000000000000000000000000000000000000000000000000000000000000",
				"0x000000000000000000000000aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
				"0x0000000000000000000000000000000000000000000000000000000000000001",
			},
			Data: "0x",
		},
	}
}

// newTestPublisher wires a publisher against a mocked NATS stack. The
// connection expects exactly one Close.
func newTestPublisher(t *testing.T) (*mocks.MockJetStream, messaging.Publisher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)

	natsJS.EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(conn, js, nil)
	conn.EXPECT().Close()

	pub, err := jetstream.NewPublisher(jetstream.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "TRIGGERS",
		ConnectionName: "publisher-test",
	}, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	return js, pub
}

func TestPublisher_PublishTrigger(t *testing.T) {
	t.Run("publishes to the trigger subject", func(t *testing.T) {
		js, pub := newTestPublisher(t)
		defer pub.Close()

		msg := testTriggerMessage()

		js.EXPECT().
			Publish(gomock.Any(), "triggers.cryptokitties", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
				var published domain.TriggerMessage
				require.NoError(t, json.Unmarshal(data, &published))
				assert.Equal(t, msg, published)
				return &natsjs.PubAck{Stream: "TRIGGERS", Sequence: 1}, nil
			})

		err := pub.PublishTrigger(context.Background(), msg)
		require.NoError(t, err)
	})

	t.Run("publish failure is wrapped", func(t *testing.T) {
		js, pub := newTestPublisher(t)
		defer pub.Close()

		js.EXPECT().
			Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, assert.AnError)

		err := pub.PublishTrigger(context.Background(), testTriggerMessage())
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to publish trigger message")
	})
}

func TestNewPublisher_ConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	natsJS := mocks.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	pub, err := jetstream.NewPublisher(jetstream.Config{
		URL: "nats://localhost:4222",
	}, natsJS, adapter.NewJSON())
	assert.Nil(t, pub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS and create JetStream")
}
