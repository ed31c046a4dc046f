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

package common_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pftrack/common"
	"github.com/spf13/viper"
)

var _ = Describe("lz4 compression", func() {
	It("roundtrips data", func() {
		payload := bytes.Repeat([]byte("portfolio bar data "), 100)

		compressed, err := common.Compress(payload)
		Expect(err).To(BeNil())
		Expect(len(compressed)).To(BeNumerically("<", len(payload)))

		decompressed, err := common.Decompress(compressed)
		Expect(err).To(BeNil())
		Expect(decompressed).To(Equal(payload))
	})
})

var _ = Describe("Cache", func() {
	BeforeEach(func() {
		viper.Set("cache.redis", false)
		viper.Set("cache.local_size", 16)
		Expect(common.SetupCache()).To(Succeed())
	})

	It("stores and retrieves values", func() {
		Expect(common.CacheSet("key1", []byte("hello world"))).To(Succeed())

		val, err := common.CacheGet("key1")
		Expect(err).To(BeNil())
		Expect(val).To(Equal([]byte("hello world")))
	})

	It("misses on unknown keys", func() {
		_, err := common.CacheGet("never-set")
		Expect(err).To(MatchError(common.ErrCacheMiss))
	})
})

var _ = Describe("ArrToUpper", func() {
	It("upper cases in place", func() {
		arr := []string{"infy", "Tcs"}
		common.ArrToUpper(arr)
		Expect(arr).To(Equal([]string{"INFY", "TCS"}))
	})
})
