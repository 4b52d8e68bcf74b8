package settlement

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/model"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/net/kafka"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Events receives settlement lifecycle notifications for downstream
// consumers (notifications, countdown scheduling, admin dashboards).
// Publishing is best effort and never fails the settlement itself.
type Events interface {
	PublishSettlement(investment *model.Investment, summary *CommissionSummary)
	PublishInvestmentStatus(investment *model.Investment)
	PublishClaim(claim *model.PaymentClaim)
}

// NopEvents drops every event
type NopEvents struct{}

func (NopEvents) PublishSettlement(*model.Investment, *CommissionSummary) {}
func (NopEvents) PublishInvestmentStatus(*model.Investment)               {}
func (NopEvents) PublishClaim(*model.PaymentClaim)                        {}

// KafkaEvents publishes settlement events to kafka topics
type KafkaEvents struct {
	settlements kafka.KafkaProducer
	claims      kafka.KafkaProducer
}

// NewKafkaEvents creates an event publisher over the configured topics
func NewKafkaEvents(cfg kafka.Config) *KafkaEvents {
	return &KafkaEvents{
		settlements: kafka.NewKafkaProducer(cfg.Brokers, cfg.UseTLS, cfg.Topics["settlements"]),
		claims:      kafka.NewKafkaProducer(cfg.Brokers, cfg.UseTLS, cfg.Topics["claims"]),
	}
}

// Close terminates the kafka writers
func (events *KafkaEvents) Close() {
	if err := events.settlements.Close(); err != nil {
		log.Error().Err(err).Str("section", "settlement").Msg("Unable to close settlements producer")
	}
	if err := events.claims.Close(); err != nil {
		log.Error().Err(err).Str("section", "settlement").Msg("Unable to close claims producer")
	}
}

func publish(producer kafka.KafkaProducer, key string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("section", "settlement").Str("key", key).Msg("Unable to encode event")
		return
	}
	err = producer.WriteMessages(context.Background(), kafkaGo.Message{
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		log.Error().Err(err).Str("section", "settlement").Str("key", key).Msg("Unable to publish event")
	}
}

func (events *KafkaEvents) PublishSettlement(investment *model.Investment, summary *CommissionSummary) {
	publish(events.settlements, "settlement_completed", map[string]interface{}{
		"investment": investment,
		"summary":    summary,
	})
}

func (events *KafkaEvents) PublishInvestmentStatus(investment *model.Investment) {
	publish(events.settlements, "investment_status_changed", investment)
}

func (events *KafkaEvents) PublishClaim(claim *model.PaymentClaim) {
	publish(events.claims, "claim_screened", claim)
}
