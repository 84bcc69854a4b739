package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/internal/notify"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

type eventSource interface {
	Subscribe() (<-chan notify.OrderPlaced, func())
}

// OrderEvents streams order-placed announcements as server-sent events so a
// dashboard can refresh without polling. Delivery is at-most-once: a client
// that connects after an order is placed never sees it.
func OrderEvents(src eventSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event source unavailable"))
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		events, cancel := src.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case event, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(map[string]string{
					"order_id":     event.OrderID,
					"order_number": event.OrderNumber,
					"total_amount": event.TotalAmount,
					"placed_at":    event.PlacedAt.Format(time.RFC3339),
				})
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: order_placed\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
