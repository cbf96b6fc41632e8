package academicyear

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/sharath018/accreditation-data-backend/config"
	"github.com/sharath018/accreditation-data-backend/utils"
)

// TransitionTopic carries started-transition dispatches to the worker.
const TransitionTopic = "year-transitions"

type transitionMessage struct {
	TransitionID uint `json:"transition_id"`
}

// KafkaDispatcher publishes started transitions to the worker topic.
type KafkaDispatcher struct{}

func NewKafkaDispatcher() *KafkaDispatcher { return &KafkaDispatcher{} }

func (d *KafkaDispatcher) DispatchTransition(ctx context.Context, transitionID uint) error {
	return utils.PublishMessage(ctx, TransitionTopic, transitionMessage{TransitionID: transitionID})
}

// StartTransitionConsumer runs the background worker loop that picks up
// dispatched transitions and processes them outside the request path.
func StartTransitionConsumer(cfg *config.Config, svc *TransitionService) {
	go func() {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
			Topic:   TransitionTopic,
		})
		defer reader.Close()

		log.Printf("🔄 Year transition consumer listening on %s", TransitionTopic)
		for {
			m, err := reader.ReadMessage(context.Background())
			if err != nil {
				log.Printf("❌ Transition consumer read error: %v", err)
				return
			}

			var msg transitionMessage
			if err := json.Unmarshal(m.Value, &msg); err != nil {
				log.Printf("⚠️ Skipping malformed transition message: %v", err)
				continue
			}

			if err := svc.ProcessTransition(msg.TransitionID); err != nil {
				// failure bookkeeping is already done inside ProcessTransition;
				// here we only alert
				log.Printf("❌ Transition %d processing failed: %v", msg.TransitionID, err)
			}
		}
	}()
}
