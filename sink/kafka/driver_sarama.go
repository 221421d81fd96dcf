package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"

	"lister/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
	Version string   `yaml:"version"`
}

// driver publishes one message per entry, keyed by list name so a list stays
// on one partition in order.
type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if cfg.Topic == "" {
		return fmt.Errorf("kafka-sink: topic must not be empty")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	var err error
	d.p, err = sarama.NewSyncProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) Write(ctx context.Context, l sink.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msgs := make([]*sarama.ProducerMessage, len(l.Entries))
	for i, e := range l.Entries {
		msgs[i] = &sarama.ProducerMessage{
			Topic: d.cfg.Topic,
			Key:   sarama.StringEncoder(l.Name),
			Value: sarama.StringEncoder(e),
			Headers: []sarama.RecordHeader{
				{Key: []byte("run_id"), Value: []byte(l.RunID)},
			},
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := d.p.SendMessages(msgs); err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	return nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	return d.p.Close()
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
