// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package notify delivers best-effort messages through a Telegram bot.
// Delivery runs on a background worker behind a bounded queue: enqueue
// never blocks the caller, delivery failures are logged and swallowed, and
// accounting correctness never depends on a message arriving.
package notify

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultQueueSize = 32

var telegramAPI = "https://api.telegram.org"

type message struct {
	ID        string
	Text      string
	FilePaths []string
}

// Telegram is a queued notification sink. With no bot token configured it
// runs disabled: messages print to stdout instead of going over the wire.
type Telegram struct {
	token  string
	chatID string
	client *http.Client

	queue     chan *message
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewTelegram builds the sink from telegram.* configuration and starts
// its delivery worker
func NewTelegram() *Telegram {
	queueSize := viper.GetInt("telegram.queue_size")
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	sink := &Telegram{
		token:  viper.GetString("telegram.token"),
		chatID: viper.GetString("telegram.chat_id"),
		client: &http.Client{Timeout: 30 * time.Second},
		queue:  make(chan *message, queueSize),
	}

	sink.wg.Add(1)
	go sink.worker()

	return sink
}

// SendText queues a text message; when the queue is full the message is
// dropped with a warning rather than blocking the caller
func (sink *Telegram) SendText(text string) {
	sink.enqueue(&message{ID: uuid.New().String(), Text: text})
}

// SendFiles queues file attachments for delivery
func (sink *Telegram) SendFiles(paths []string) {
	sink.enqueue(&message{ID: uuid.New().String(), FilePaths: paths})
}

func (sink *Telegram) enqueue(msg *message) {
	select {
	case sink.queue <- msg:
	default:
		log.Warn().Str("MsgID", msg.ID).Msg("notification queue full; dropping message")
	}
}

// Close stops accepting messages, drains the queue, and waits for the
// worker to finish delivering
func (sink *Telegram) Close() {
	sink.closeOnce.Do(func() {
		close(sink.queue)
	})
	sink.wg.Wait()
}

func (sink *Telegram) worker() {
	defer sink.wg.Done()
	for msg := range sink.queue {
		sink.deliver(msg)
	}
}

func (sink *Telegram) deliver(msg *message) {
	if sink.token == "" {
		if msg.Text != "" {
			fmt.Printf("[notify] %s\n", msg.Text)
		}
		for _, path := range msg.FilePaths {
			fmt.Printf("[notify] file: %s\n", path)
		}
		return
	}

	if msg.Text != "" {
		if err := sink.sendMessage(msg.Text); err != nil {
			log.Warn().Stack().Err(err).Str("MsgID", msg.ID).Msg("could not deliver telegram message")
		}
	}

	for _, path := range msg.FilePaths {
		if err := sink.sendDocument(path); err != nil {
			log.Warn().Stack().Err(err).Str("MsgID", msg.ID).Str("FilePath", path).Msg("could not deliver telegram document")
		}
	}
}

func (sink *Telegram) sendMessage(text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPI, sink.token)
	resp, err := sink.client.PostForm(endpoint, url.Values{
		"chat_id": {sink.chatID},
		"text":    {text},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}

func (sink *Telegram) sendDocument(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", sink.chatID); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, fh); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", telegramAPI, sink.token)
	resp, err := sink.client.Post(endpoint, writer.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendDocument returned status %d", resp.StatusCode)
	}
	return nil
}
