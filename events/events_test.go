package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/gorilla/websocket"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func TestMultiDeliversToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{err: errors.New("down")}
	err := Multi{a, b, Nop{}}.Publish(context.Background(), Event{Type: TransactionCreated})

	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("expected both publishers to receive the event, got %d and %d", len(a.got), len(b.got))
	}
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected joined error, got %v", err)
	}
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("sends json to prefixed topic", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, NewKafkaConfig())
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var e Event
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			if e.TransactionID != "t1" || e.StoreID != "s1" {
				return errors.New("unexpected payload " + string(val))
			}
			return nil
		})

		p := NewKafkaPublisherWithProducer(producer, "cbuy")
		if got := p.Topic(TransactionConfirmed); got != "cbuy.transaction.confirmed" {
			t.Fatalf("unexpected topic %s", got)
		}
		err := p.Publish(context.Background(), Event{Type: TransactionConfirmed, TransactionID: "t1", StoreID: "s1"})
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
		if err := p.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})

	t.Run("surfaces broker failure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, NewKafkaConfig())
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p := NewKafkaPublisherWithProducer(producer, "")
		if got := p.Topic(TransactionCreated); got != "transaction.created" {
			t.Fatalf("unexpected topic %s", got)
		}
		if err := p.Publish(context.Background(), Event{Type: TransactionCreated}); !errors.Is(err, sarama.ErrOutOfBrokers) {
			t.Fatalf("expected ErrOutOfBrokers, got %v", err)
		}
		_ = p.Close()
	})
}

func TestHubRoutesByStore(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, r.URL.Query().Get("store"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?store=s1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count("s1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx := context.Background()
	_ = hub.Publish(ctx, Event{Type: TransactionCreated, TransactionID: "other", StoreID: "s2"})
	_ = hub.Publish(ctx, Event{Type: TransactionCreated, TransactionID: "mine", StoreID: "s1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var e Event
	if err := json.Unmarshal(msg, &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.TransactionID != "mine" {
		t.Fatalf("expected only s1 events, got %+v", e)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Count("s1") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
