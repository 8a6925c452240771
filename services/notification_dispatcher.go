package services

import (
	"context"
	"log"
	"sync"
	"time"

	"hydrateMeAPI/internal/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, n *notification.Notification) error
}

// NotificationDispatcher delivers pushes from a fixed worker pool so request
// handlers only pay for a channel send.
type NotificationDispatcher struct {
	pushProvider   PushNotificationProvider
	workers        int
	jobQueue       chan *notification.Notification
	stopChan       chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup
	enqueueTimeout time.Duration
	sendTimeout    time.Duration
}

func NewNotificationDispatcher(workers, queueSize int) *NotificationDispatcher {
	if workers <= 0 {
		workers = 5
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	dispatcher := &NotificationDispatcher{
		workers:        workers,
		jobQueue:       make(chan *notification.Notification, queueSize),
		stopChan:       make(chan struct{}),
		enqueueTimeout: 100 * time.Millisecond,
		sendTimeout:    10 * time.Second,
	}

	dispatcher.startWorkers()
	return dispatcher
}

// Allow injecting the real FCM provider from main.go
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.pushProvider = provider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

func (d *NotificationDispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.jobQueue:
			d.processJob(n)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(n *notification.Notification) {
	if d.pushProvider == nil {
		log.Printf("Skipping push %s for user %s: no provider set", n.Type, n.UserID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.pushProvider.SendPush(ctx, n); err != nil {
		log.Printf("Push failed for user %s: %v", n.UserID, err)
	}
}

// Notify queues n, dropping it if the queue stays full past the enqueue timeout.
func (d *NotificationDispatcher) Notify(n *notification.Notification) {
	if n == nil {
		return
	}

	select {
	case <-d.stopChan:
		log.Printf("Dropping notification %s: dispatcher stopped", n.ID)
		return
	default:
	}

	select {
	case d.jobQueue <- n:
	case <-time.After(d.enqueueTimeout):
		log.Printf("Failed to queue notification %s: queue full", n.ID)
	}
}

// Stop the dispatcher gracefully
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		log.Println("Stopping notification dispatcher...")
		close(d.stopChan)
		d.wg.Wait()
		log.Println("Notification dispatcher stopped")
	})
}

// LogPushProvider writes pushes to the log; used when FCM is not configured.
type LogPushProvider struct{}

func (LogPushProvider) SendPush(ctx context.Context, n *notification.Notification) error {
	log.Printf("PUSH (log only): user=%s type=%s %s - %s", n.UserID, n.Type, n.Title, n.Body)
	return nil
}
