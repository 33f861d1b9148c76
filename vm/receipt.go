// Copyright 2024 The rvm Authors
// This file is part of the rvm library.
//
// The rvm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The rvm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the rvm library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"

	"github.com/holiman/bloomfilter/v2"

	"github.com/probeum/rvm/common"
)

// topicHash adapts a raw topic word to the hash.Hash64 interface that
// bloomfilter.Filter.Add/Contains expect, without hashing it again: the
// topic word itself is already a well-distributed 64-bit key.
type topicHash uint64

func (h topicHash) Write(p []byte) (int, error) { return len(p), nil }
func (h topicHash) Sum(b []byte) []byte         { return b }
func (h topicHash) Reset()                      {}
func (h topicHash) Size() int                   { return 8 }
func (h topicHash) BlockSize() int               { return 8 }
func (h topicHash) Sum64() uint64               { return uint64(h) }

// ReceiptKind tags the variant carried by a Receipt. The value is the
// wire tag byte.
type ReceiptKind uint8

const (
	ReceiptCall ReceiptKind = iota
	ReceiptReturn
	ReceiptLogEvent
	ReceiptLogData
	ReceiptTransfer
	ReceiptTransferOut
	ReceiptScriptResult
	ReceiptRevert
	ReceiptPanic
	ReceiptMint
	ReceiptBurn
)

// Receipt is an append-only typed event. Every field beyond Kind is
// variant specific; unused fields are left at their zero value.
type Receipt struct {
	Kind ReceiptKind

	ID       common.ContractId // call/return/log emitter
	AssetID  common.AssetId
	Amount   uint64
	Data     []byte
	DataHash common.Hash
	Topics   [4]uint64
	Reason   PanicReason
	GasUsed  uint64
}

// ReceiptLog is an append-only, bounded log of emitted receipts plus a
// bloom filter over log topics for fast existence checks.
type ReceiptLog struct {
	receipts []Receipt
	max      int
	bloom    *bloomfilter.Filter
}

// NewReceiptLog returns an empty log bounded to max entries. A bloom
// filter sized for max*4 topic insertions backs topic membership queries.
func NewReceiptLog(max int) *ReceiptLog {
	bf, _ := bloomfilter.New(uint64(max)*4+1, 4)
	return &ReceiptLog{max: max, bloom: bf}
}

// ErrReceiptLogFull is returned by Append once the bounded maximum has
// been reached; this is a transactor-level resource ceiling, not a VM
// panic.
var ErrReceiptLogFull = errors.New("vm: receipt log full")

// Append records r, indexing its topics into the bloom filter. It fails
// if the log is already at its configured maximum length.
func (l *ReceiptLog) Append(r Receipt) error {
	if len(l.receipts) >= l.max {
		return ErrReceiptLogFull
	}
	l.receipts = append(l.receipts, r)
	if r.Kind == ReceiptLogEvent {
		for _, topic := range r.Topics {
			l.bloom.Add(topicHash(topic))
		}
	}
	return nil
}

// Pop removes and returns the last appended receipt, used by StateDiff
// inversion of a VecAppend change.
func (l *ReceiptLog) Pop() (Receipt, bool) {
	if len(l.receipts) == 0 {
		return Receipt{}, false
	}
	r := l.receipts[len(l.receipts)-1]
	l.receipts = l.receipts[:len(l.receipts)-1]
	return r, true
}

// Len reports the number of receipts currently recorded.
func (l *ReceiptLog) Len() int { return len(l.receipts) }

// All returns the receipts in emission order.
func (l *ReceiptLog) All() []Receipt { return l.receipts }

// MayContainTopic reports whether topic could have been logged (false
// positives possible, false negatives never).
func (l *ReceiptLog) MayContainTopic(topic uint64) bool {
	return l.bloom.Contains(topicHash(topic))
}
