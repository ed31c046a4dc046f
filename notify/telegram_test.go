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

package notify_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/notify"
	"github.com/spf13/viper"
)

var _ = Describe("Telegram", func() {
	BeforeEach(func() {
		viper.Set("telegram.token", "")
		viper.Set("telegram.chat_id", "")
		viper.Set("telegram.queue_size", 4)
	})

	It("drains queued messages before Close returns", func() {
		sink := notify.NewTelegram()
		sink.SendText("first")
		sink.SendText("second")
		sink.Close()
	})

	It("never blocks the caller on enqueue", func() {
		sink := notify.NewTelegram()
		defer sink.Close()

		done := make(chan struct{})
		go func() {
			defer close(done)
			// far more messages than the queue holds; overflow is
			// dropped, not blocked on
			for i := 0; i < 1000; i++ {
				sink.SendText("burst")
			}
		}()

		Eventually(done, 5*time.Second).Should(BeClosed())
	})

	It("tolerates multiple Close calls", func() {
		sink := notify.NewTelegram()
		sink.Close()
		sink.Close()
	})
})
