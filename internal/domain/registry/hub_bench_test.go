package registry

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func benchHub(b *testing.B, conns, mailbox int) (*Hub, uuid.UUID, []Connector) {
	b.Helper()
	h := NewHub(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	sessionID := uuid.New()

	out := make([]Connector, 0, conns)
	for i := range conns {
		conn := NewConnector(h.NextConnID(), testIdentity(fmt.Sprintf("user-%d", i)), mailbox)
		if err := h.Insert(sessionID, conn); err != nil {
			b.Fatal(err)
		}
		out = append(out, conn)
	}
	return h, sessionID, out
}

func BenchmarkBroadcast(b *testing.B) {
	for _, size := range []int{2, 16, 128} {
		b.Run(fmt.Sprintf("conns-%d", size), func(b *testing.B) {
			h, sessionID, conns := benchHub(b, size, 1)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				h.Broadcast(sessionID, "payload", NoSkip)
				for _, conn := range conns {
					select {
					case <-conn.Recv():
					default:
					}
				}
			}
		})
	}
}

func BenchmarkInsertRemove(b *testing.B) {
	h, sessionID, _ := benchHub(b, 8, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		conn := NewConnector(h.NextConnID(), testIdentity("churn"), 1)
		if err := h.Insert(sessionID, conn); err != nil {
			b.Fatal(err)
		}
		h.Remove(sessionID, conn.GetID())
	}
}

func BenchmarkLookupIdentity(b *testing.B) {
	h, sessionID, conns := benchHub(b, 64, 1)
	target := conns[32].GetID()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := h.LookupIdentity(sessionID, target); !ok {
			b.Fatal("identity missing")
		}
	}
}
