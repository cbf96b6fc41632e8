package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseApp    *firebase.App
	FirebaseClient *messaging.Client
	firebaseOnce   sync.Once
	firebaseErr    error
)

// InitFirebase initializes the Firebase Admin SDK and FCM client. Push
// notifications stay disabled when credentials are missing; the rest of the
// platform is unaffected.
func InitFirebase() error {
	firebaseOnce.Do(func() {
		ctx := context.Background()

		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = os.Getenv("FCM_CREDENTIALS_PATH")
		}
		if credentialsPath == "" {
			credentialsPath = "./serviceAccountKey.json"
		}

		projectID := os.Getenv("FIREBASE_PROJECT_ID")
		if projectID == "" {
			projectID = os.Getenv("FCM_PROJECT_ID")
		}

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Printf("⚠️ Firebase credentials not found at %s, push notifications disabled", credentialsPath)
			firebaseErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}
		if projectID == "" {
			log.Println("⚠️ FIREBASE_PROJECT_ID not set, push notifications disabled")
			firebaseErr = fmt.Errorf("FIREBASE_PROJECT_ID is required for FCM")
			return
		}

		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID},
			option.WithCredentialsFile(credentialsPath))
		if err != nil {
			firebaseErr = fmt.Errorf("firebase app initialization failed: %w", err)
			return
		}

		client, err := app.Messaging(ctx)
		if err != nil {
			FirebaseApp = app
			firebaseErr = fmt.Errorf("FCM client initialization failed: %w", err)
			return
		}

		FirebaseApp = app
		FirebaseClient = client
		log.Printf("✅ FCM client initialized for project %s", projectID)
	})
	return firebaseErr
}

func IsFCMEnabled() bool {
	return FirebaseClient != nil
}

// SendPushToTokens delivers a notification to the supplied device tokens and
// returns the tokens FCM reported as dead so the caller can prune them.
func SendPushToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error) {
	if FirebaseClient == nil || len(tokens) == 0 {
		return nil, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	resp, err := FirebaseClient.SendEachForMulticast(ctx, msg)
	if err != nil {
		return nil, err
	}

	var dead []string
	for i, r := range resp.Responses {
		if r.Error != nil && messaging.IsUnregistered(r.Error) {
			dead = append(dead, tokens[i])
		}
	}
	if resp.FailureCount > 0 {
		log.Printf("⚠️ FCM delivered %d/%d notifications", resp.SuccessCount, len(tokens))
	}
	return dead, nil
}
