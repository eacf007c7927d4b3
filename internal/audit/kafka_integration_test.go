//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"baseapi/internal/audit"
	"baseapi/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaSinkSuite) newTopic(ctx context.Context) string {
	topic := "audit-" + uuid.NewString()
	client, err := kgo.NewClient(kgo.SeedBrokers(s.redpanda.Broker))
	s.Require().NoError(err)
	defer client.Close()

	_, err = kadm.NewClient(client).CreateTopic(ctx, 1, 1, nil, topic)
	s.Require().NoError(err)
	return topic
}

func (s *KafkaSinkSuite) TestProducedEventIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := s.newTopic(ctx)

	sink, err := audit.NewKafkaSink([]string{s.redpanda.Broker}, topic)
	s.Require().NoError(err)
	defer sink.Close()
	s.Require().NoError(sink.Ping(ctx))

	pub := audit.NewPublisher(sink)
	s.Require().NoError(pub.Emit(ctx, audit.Event{
		Action:  audit.ActionExampleCreated,
		Subject: "12345678",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())

	var records []*kgo.Record
	fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	s.Require().Len(records, 1)
	s.Equal("12345678", string(records[0].Key))

	var got audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(audit.ActionExampleCreated, got.Action)
	s.NotEmpty(got.ID)
}

func (s *KafkaSinkSuite) TestRequiresBrokers() {
	_, err := audit.NewKafkaSink(nil, "topic")
	s.Error(err)
}
