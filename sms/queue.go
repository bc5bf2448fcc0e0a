package sms

import (
	"log"
	"sync"
)

// Queue sends SMS in the background through a single sender
type Queue struct {
	queue  chan *SMS
	stopCh chan struct{}
	wg     sync.WaitGroup
	send   SendFunc
	once   sync.Once
}

func NewQueue(bufferSize int, send SendFunc) *Queue {
	return &Queue{
		queue:  make(chan *SMS, bufferSize),
		stopCh: make(chan struct{}),
		send:   send,
	}
}

// TrySend queues an SMS without blocking. It reports false when the queue is full.
func (q *Queue) TrySend(sms *SMS) bool {
	select {
	case q.queue <- sms:
		return true
	default:
		log.Printf("SMS queue full, dropping message to %s", MaskPhone(sms.Recipient))
		return false
	}
}

// Start begins processing the SMS queue
func (q *Queue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case sms := <-q.queue:
				q.deliver(sms)
			case <-q.stopCh:
				return
			}
		}
	}()
}

func (q *Queue) deliver(sms *SMS) {
	if err := sms.Check(); err != nil {
		log.Printf("Skipping SMS to %s: %v", MaskPhone(sms.Recipient), err)
		return
	}
	if q.send == nil {
		log.Println("No SMS sender configured")
		return
	}
	if err := q.send(sms); err != nil {
		log.Printf("Failed to send SMS to %s: %v", MaskPhone(sms.Recipient), err)
	}
}

// Stop ends processing; messages still queued are discarded
func (q *Queue) Stop() {
	q.once.Do(func() { close(q.stopCh) })
	q.wg.Wait()
}
