package kafka

import (
	"context"
	"fmt"
	"testing"

	"github.com/IBM/sarama/mocks"

	"lister/sink"
)

func TestWrite_OneMessagePerEntry(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	for _, want := range []string{"europa.eu", "example.com"} {
		want := want
		sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			if string(val) != want {
				return fmt.Errorf("want %q, got %q", want, val)
			}
			return nil
		})
	}
	d := &driver{cfg: Config{Topic: "lists"}, p: sp}

	l := sink.List{Name: "trancos", RunID: "r1", Entries: []string{"europa.eu", "example.com"}}
	if err := d.Write(context.Background(), l); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestWrite_EmptyListSendsNothing(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	d := &driver{cfg: Config{Topic: "lists"}, p: sp}
	if err := d.Write(context.Background(), sink.List{Name: "empty"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_ = d.Close()
}

func TestConfigure_RequiresTopic(t *testing.T) {
	d := &driver{}
	if err := d.Configure(Config{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Fatal("expected error for empty topic")
	}
}
