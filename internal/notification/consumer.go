package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/sharath018/accreditation-data-backend/config"
	"github.com/sharath018/accreditation-data-backend/internal/submission"
)

// StartEventConsumer reads submission workflow events and turns them into
// in-app, email and push notifications.
func StartEventConsumer(cfg *config.Config, svc *Service) {
	go func() {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID + "-notifications",
			Topic:   submission.EventsTopic,
		})
		defer reader.Close()

		log.Printf("🔄 Notification consumer listening on %s", submission.EventsTopic)
		for {
			m, err := reader.ReadMessage(context.Background())
			if err != nil {
				log.Printf("❌ Notification consumer read error: %v", err)
				return
			}

			var ev submission.Event
			if err := json.Unmarshal(m.Value, &ev); err != nil {
				log.Printf("⚠️ Skipping malformed submission event: %v", err)
				continue
			}

			if err := svc.HandleSubmissionEvent(context.Background(), ev); err != nil {
				log.Printf("❌ Notification fan-out for submission %d failed: %v", ev.SubmissionID, err)
			}
		}
	}()
}
