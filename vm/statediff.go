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

// changeKind discriminates the variant carried by a single StateDiff
// entry, mirroring the journal-entry idiom: each entry knows how to
// invert itself without consulting the rest of the log.
type changeKind uint8

const (
	changeRegisterWrite changeKind = iota
	changeMemoryRangeWrite
	changeMemoryRegionGrow
	changeVecAppend
	changeVecPop
	changeMapPut
	changeMapRemove
)

type memRegion uint8

const (
	regionStack memRegion = iota
	regionHeap
)

type vecID uint8

const (
	vecReceipts vecID = iota
	vecFrames
)

// change is one reversible mutation. Only the fields relevant to Kind
// are populated; the rest are zero.
type change struct {
	kind changeKind

	regIdx     uint8
	regOld     uint64
	regNew     uint64

	memOffset uint64
	memOld    []byte
	memNew    []byte

	region       memRegion
	oldPointer   uint64
	newPointer   uint64

	vec      vecID
	vecIndex int
	receipt  Receipt
	frame    CallFrame

	mapID  string
	key    [32]byte
	oldVal [32]byte
	newVal [32]byte
	hadOld bool
}

// StateDiff is an ordered, append-only log of reversible changes
// recorded as the interpreter mutates registers, memory, receipts,
// frames, and storage maps. Composition is never idempotent: every
// change records exactly one transition.
type StateDiff struct {
	changes []change
}

func (d *StateDiff) recordRegisterWrite(idx uint8, old, new uint64) {
	if old == new {
		return
	}
	d.changes = append(d.changes, change{kind: changeRegisterWrite, regIdx: idx, regOld: old, regNew: new})
}

func (d *StateDiff) recordMemoryRangeWrite(offset uint64, old, new []byte) {
	d.changes = append(d.changes, change{kind: changeMemoryRangeWrite, memOffset: offset, memOld: old, memNew: new})
}

func (d *StateDiff) recordMemoryRegionGrow(region memRegion, oldPtr, newPtr uint64) {
	d.changes = append(d.changes, change{kind: changeMemoryRegionGrow, region: region, oldPointer: oldPtr, newPointer: newPtr})
}

func (d *StateDiff) recordVecAppend(vec vecID, index int, r Receipt, f CallFrame) {
	d.changes = append(d.changes, change{kind: changeVecAppend, vec: vec, vecIndex: index, receipt: r, frame: f})
}

func (d *StateDiff) recordVecPop(vec vecID, index int, r Receipt, f CallFrame) {
	d.changes = append(d.changes, change{kind: changeVecPop, vec: vec, vecIndex: index, receipt: r, frame: f})
}

func (d *StateDiff) recordMapPut(mapID string, key [32]byte, old [32]byte, hadOld bool, new [32]byte) {
	d.changes = append(d.changes, change{kind: changeMapPut, mapID: mapID, key: key, oldVal: old, hadOld: hadOld, newVal: new})
}

func (d *StateDiff) recordMapRemove(mapID string, key [32]byte, old [32]byte) {
	d.changes = append(d.changes, change{kind: changeMapRemove, mapID: mapID, key: key, oldVal: old, hadOld: true})
}

// Len reports how many changes have been recorded.
func (d *StateDiff) Len() int { return len(d.changes) }

// Reset discards every recorded change without applying it, used on
// commit where the transaction's effects are kept rather than undone.
func (d *StateDiff) Reset() { d.changes = nil }

// ApplyInverse walks the changes newest-first, applying the inverse of
// each to it. This is ResetVmState: it drives live back to the state
// it had before the changes were recorded.
func (it *Interpreter) ApplyInverse(d *StateDiff) {
	for i := len(d.changes) - 1; i >= 0; i-- {
		it.invert(d.changes[i])
	}
}

func (it *Interpreter) invert(c change) {
	switch c.kind {
	case changeRegisterWrite:
		it.regs.SystemSet(c.regIdx, c.regOld)
	case changeMemoryRangeWrite:
		_ = it.mem.WriteBytes(c.memOffset, c.memOld)
	case changeMemoryRegionGrow:
		if c.region == regionStack {
			it.mem.sp = c.oldPointer
		} else {
			it.mem.hp = c.oldPointer
		}
	case changeVecAppend:
		switch c.vec {
		case vecReceipts:
			it.receipts.Pop()
		case vecFrames:
			it.frames.pop()
		}
	case changeVecPop:
		switch c.vec {
		case vecReceipts:
			it.receipts.receipts = append(it.receipts.receipts, c.receipt)
		case vecFrames:
			it.frames.push(c.frame)
		}
	case changeMapPut:
		if c.hadOld {
			it.storagePut(c.mapID, c.key, c.oldVal)
		} else {
			it.storageRemove(c.mapID, c.key)
		}
	case changeMapRemove:
		it.storagePut(c.mapID, c.key, c.oldVal)
	}
}
