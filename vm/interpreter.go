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
	"crypto/sha256"
	"errors"

	"github.com/probeum/rvm/common"
)

// errOutOfGasInFrame unwinds the current call frame (or halts a
// top-level script) without panicking the whole transaction.
var errOutOfGasInFrame = errors.New("vm: out of gas in frame")

// ErrHalted is returned by Step once the interpreter has already
// produced an Outcome.
var ErrHalted = errors.New("vm: already halted")

// Outcome is the terminal result of a Step call that ends execution.
type Outcome uint8

const (
	OutcomeContinue Outcome = iota
	OutcomeHalted
)

// Storage is the live key/value view an Interpreter mutates. StorageLayer
// (package store) implements this over its `live` snapshot; the
// interpreter records every Put/Remove into its active StateDiff so the
// mutation can be inverted on rollback.
type Storage interface {
	Get(mapID string, key [32]byte) ([32]byte, bool)
	Put(mapID string, key, val [32]byte)
	Remove(mapID string, key [32]byte)
}

// Code supplies the bytecode for a contract id, used by CALL to load the
// callee's instructions.
type Code interface {
	CodeOf(id common.ContractId) ([]byte, bool)
}

// Interpreter drives the fetch-decode-execute loop for a single
// transaction. It is created per transaction and discarded after
// finalization.
type Interpreter struct {
	regs     *RegisterFile
	mem      *VmMemory
	frames   frameStack
	receipts *ReceiptLog
	storage  Storage
	code     Code
	crypto   CryptoOps
	oracle   MetadataOracle
	costs    GasCosts

	halted    bool
	result    uint64
	ggasLimit uint64 // GGAS as seeded by New, the base for gas-used figures

	diff *StateDiff // active recording scope; nil means unrecorded
}

// New creates an interpreter over storage/code with memory of size bytes
// holding the serialized transaction in its first txSize bytes, and the
// given gas limits seeded into GGAS/CGAS.
func New(storage Storage, code Code, size, txSize uint64, ggas, cgas uint64, costs GasCosts, maxReceipts int) *Interpreter {
	it := &Interpreter{
		regs:     NewRegisterFile(),
		mem:      NewVmMemory(size, txSize),
		receipts: NewReceiptLog(maxReceipts),
		storage:  storage,
		code:     code,
		crypto:   noCryptoOps{},
		oracle:   noMetadataOracle{},
		costs:    costs,
	}
	it.ggasLimit = ggas
	it.regs.SystemSet(RegSP, 0)
	it.regs.SystemSet(RegHP, size)
	it.regs.SystemSet(RegGGAS, ggas)
	it.regs.SystemSet(RegCGAS, cgas)
	return it
}

// Registers exposes the read view of the register file.
func (it *Interpreter) Registers() *RegisterFile { return it.regs }

// Memory exposes the VmMemory instance.
func (it *Interpreter) Memory() *VmMemory { return it.mem }

// Receipts exposes the receipt log.
func (it *Interpreter) Receipts() *ReceiptLog { return it.receipts }

// Halted reports whether Step has produced a terminal Outcome.
func (it *Interpreter) Halted() bool { return it.halted }

// BeginDiff starts recording mutations into a fresh StateDiff, returning
// it so the caller can later invert it via ApplyInverse.
func (it *Interpreter) BeginDiff() *StateDiff {
	d := &StateDiff{}
	it.diff = d
	return d
}

// EndDiff stops recording.
func (it *Interpreter) EndDiff() { it.diff = nil }

func (it *Interpreter) writeReg(idx uint8, v uint64) error {
	old := it.regs.Read(idx)
	if err := it.regs.Write(idx, v); err != nil {
		return err
	}
	if it.diff != nil {
		it.diff.recordRegisterWrite(idx, old, v)
	}
	return nil
}

// setSystemReg writes a reserved register (such as ERR) that writeReg
// rejects, recording the change into the active StateDiff as writeReg does.
func (it *Interpreter) setSystemReg(idx uint8, v uint64) {
	old := it.regs.Read(idx)
	it.regs.SystemSet(idx, v)
	if it.diff != nil {
		it.diff.recordRegisterWrite(idx, old, v)
	}
}

// gasUsed reports the global gas consumed since New.
func (it *Interpreter) gasUsed() uint64 { return it.ggasLimit - it.regs.Read(RegGGAS) }

func (it *Interpreter) storagePut(mapID string, key, val [32]byte) {
	old, hadOld := it.storage.Get(mapID, key)
	it.storage.Put(mapID, key, val)
	if it.diff != nil {
		it.diff.recordMapPut(mapID, key, old, hadOld, val)
	}
}

func (it *Interpreter) storageRemove(mapID string, key [32]byte) {
	old, hadOld := it.storage.Get(mapID, key)
	if !hadOld {
		return
	}
	it.storage.Remove(mapID, key)
	if it.diff != nil {
		it.diff.recordMapRemove(mapID, key, old)
	}
}

func (it *Interpreter) appendReceipt(r Receipt) error {
	if err := it.receipts.Append(r); err != nil {
		return err
	}
	if it.diff != nil {
		it.diff.recordVecAppend(vecReceipts, it.receipts.Len()-1, r, CallFrame{})
	}
	return nil
}

// Step fetches, decodes, and executes exactly one instruction, advancing
// PC by 4 unless the instruction itself redirected it.
func (it *Interpreter) Step() (Outcome, error) {
	if it.halted {
		return OutcomeHalted, ErrHalted
	}
	pc := it.regs.Read(RegPC)
	raw, err := it.mem.ReadBytes(pc, 4)
	if err != nil {
		it.halted = true
		return OutcomeHalted, err
	}
	var buf [4]byte
	copy(buf[:], raw)
	ins, err := decode(buf)
	if err != nil {
		it.halted = true
		return OutcomeHalted, err
	}

	if err := it.useGas(costOf(it.costs, ins.Op)); err != nil {
		if err == errOutOfGasInFrame {
			return it.unwindFrame()
		}
		it.halted = true
		return OutcomeHalted, err
	}

	advance := true
	outcome, err := it.execute(ins, &advance)
	if err != nil {
		it.halted = true
		return OutcomeHalted, err
	}
	if advance {
		it.regs.SystemSet(RegPC, pc+4)
	}
	if outcome == OutcomeHalted {
		it.halted = true
	}
	return outcome, nil
}

// Run drives Step until a terminal Outcome or error, appending the
// closing receipt for however execution ended: a Panic receipt tagging
// the reason on an abnormal termination, a ScriptResult receipt
// summarizing gas spent on a normal one (RET or RVRT, which append their
// own Return/Revert receipt first).
func (it *Interpreter) Run() (uint64, error) {
	for {
		outcome, err := it.Step()
		if err != nil {
			if reason, ok := AsPanic(err); ok {
				it.appendReceipt(Receipt{Kind: ReceiptPanic, Reason: reason, GasUsed: it.gasUsed()})
			}
			return 0, err
		}
		if outcome == OutcomeHalted {
			it.appendReceipt(Receipt{Kind: ReceiptScriptResult, GasUsed: it.gasUsed()})
			return it.result, nil
		}
	}
}

// unwindFrame handles an in-frame OutOfGas: pop to the caller if one
// exists, otherwise halt the top-level script.
func (it *Interpreter) unwindFrame() (Outcome, error) {
	f, ok := it.frames.pop()
	if !ok {
		it.halted = true
		return OutcomeHalted, panicErr(PanicOutOfGas)
	}
	if it.diff != nil {
		it.diff.recordVecPop(vecFrames, it.frames.depth(), Receipt{}, f)
	}
	it.regs.Restore(f.SavedRegisters)
	it.regs.SystemSet(RegPC, f.SavedRegisters[RegPC]+4)
	return OutcomeContinue, nil
}

func readOperand(it *Interpreter, r uint8) uint64 { return it.regs.Read(r) }

// execute dispatches a decoded instruction. advance is cleared by
// instructions that set PC themselves (JMP/JNZ/CALL/RET).
func (it *Interpreter) execute(ins instruction, advance *bool) (Outcome, error) {
	switch ins.Op {
	case OpNOOP:
		return OutcomeContinue, nil

	case OpADD:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)+readOperand(it, ins.Rc))
	case OpSUB:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)-readOperand(it, ins.Rc))
	case OpMUL:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)*readOperand(it, ins.Rc))
	case OpDIV:
		divisor := readOperand(it, ins.Rc)
		if divisor == 0 {
			return it.maybeSuppress(PanicArithmeticOverflow, ins.Rd)
		}
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)/divisor)
	case OpMOD:
		divisor := readOperand(it, ins.Rc)
		if divisor == 0 {
			return it.maybeSuppress(PanicArithmeticOverflow, ins.Rd)
		}
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)%divisor)
	case OpADDI:
		return OutcomeContinue, it.writeReg(ins.Ra, readOperand(it, ins.Ra)+uint64(ins.Imm))
	case OpAND:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)&readOperand(it, ins.Rc))
	case OpOR:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)|readOperand(it, ins.Rc))
	case OpXOR:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)^readOperand(it, ins.Rc))
	case OpSLL:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)<<uint(readOperand(it, ins.Rc)&63))
	case OpSRL:
		return OutcomeContinue, it.writeReg(ins.Rd, readOperand(it, ins.Rb)>>uint(readOperand(it, ins.Rc)&63))
	case OpNOT:
		return OutcomeContinue, it.writeReg(ins.Rd, ^readOperand(it, ins.Rb))
	case OpEQ:
		v := uint64(0)
		if readOperand(it, ins.Rb) == readOperand(it, ins.Rc) {
			v = 1
		}
		return OutcomeContinue, it.writeReg(ins.Rd, v)
	case OpLT:
		v := uint64(0)
		if readOperand(it, ins.Rb) < readOperand(it, ins.Rc) {
			v = 1
		}
		return OutcomeContinue, it.writeReg(ins.Rd, v)
	case OpGT:
		v := uint64(0)
		if readOperand(it, ins.Rb) > readOperand(it, ins.Rc) {
			v = 1
		}
		return OutcomeContinue, it.writeReg(ins.Rd, v)

	case OpLW:
		v, err := it.mem.ReadUint64(readOperand(it, ins.Rb))
		if err != nil {
			return OutcomeHalted, err
		}
		return OutcomeContinue, it.writeReg(ins.Rd, v)
	case OpSW:
		return OutcomeContinue, it.writeGuardedMemory(readOperand(it, ins.Rb), readOperand(it, ins.Rc))
	case OpALOC:
		n := readOperand(it, ins.Ra)
		old := it.mem.HP()
		if err := it.mem.GrowHeapBy(n); err != nil {
			return OutcomeHalted, err
		}
		if it.diff != nil {
			it.diff.recordMemoryRegionGrow(regionHeap, old, it.mem.HP())
		}
		return OutcomeContinue, nil
	case OpCFEI:
		old := it.mem.SP()
		if err := it.mem.GrowStack(uint64(ins.Imm)); err != nil {
			return OutcomeHalted, err
		}
		if it.diff != nil {
			it.diff.recordMemoryRegionGrow(regionStack, old, it.mem.SP())
		}
		return OutcomeContinue, nil
	case OpCFSI:
		old := it.mem.SP()
		n := uint64(ins.Imm)
		if n > old {
			return OutcomeHalted, panicErr(PanicMemoryOverflow)
		}
		it.mem.sp = old - n
		if it.diff != nil {
			it.diff.recordMemoryRegionGrow(regionStack, old, it.mem.SP())
		}
		return OutcomeContinue, nil

	case OpJMP:
		it.regs.SystemSet(RegPC, uint64(ins.Imm))
		*advance = false
		return OutcomeContinue, nil
	case OpJNZ:
		if readOperand(it, ins.Ra) != 0 {
			it.regs.SystemSet(RegPC, uint64(ins.Imm))
			*advance = false
		}
		return OutcomeContinue, nil

	case OpCALL:
		*advance = false
		return it.doCall(ins)
	case OpRET:
		return it.doRet(ins, advance)
	case OpRETD:
		return it.doRetD(ins, advance)
	case OpRVRT:
		it.result = readOperand(it, ins.Ra)
		return OutcomeHalted, it.appendReceipt(Receipt{Kind: ReceiptRevert, GasUsed: it.gasUsed()})

	case OpTR:
		return it.doTR(ins)
	case OpTRO:
		return it.doTRO(ins)
	case OpSWW:
		return it.doSWW(ins)
	case OpSRW:
		return it.doSRW(ins)

	case OpECK1:
		ok, err := it.crypto.Eck1(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), readOperand(it, ins.Rc))
		return it.cryptoResult(ok, err)
	case OpECR1:
		ok, err := it.crypto.Ecr1(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), readOperand(it, ins.Rc))
		return it.cryptoResult(ok, err)
	case OpED19:
		ok, err := it.crypto.Ed19(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), readOperand(it, ins.Rc))
		return it.cryptoResult(ok, err)
	case OpS256:
		err := it.crypto.S256(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), readOperand(it, ins.Rc))
		if err != nil {
			return OutcomeHalted, err
		}
		it.setSystemReg(RegERR, 0)
		return OutcomeContinue, nil
	case OpK256:
		err := it.crypto.K256(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), readOperand(it, ins.Rc))
		if err != nil {
			return OutcomeHalted, err
		}
		it.setSystemReg(RegERR, 0)
		return OutcomeContinue, nil
	case OpECOP:
		mode := uint8(readOperand(it, ins.Rd))
		ok, err := it.crypto.EcOp(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), readOperand(it, ins.Rc), mode)
		return it.cryptoResult(ok, err)
	case OpEPAR:
		ok, err := it.crypto.EPair(it.mem, readOperand(it, ins.Ra), readOperand(it, ins.Rb), int(readOperand(it, ins.Rc)))
		return it.cryptoResult(ok, err)

	case OpLOG:
		var topics [4]uint64
		topics[0] = readOperand(it, ins.Ra)
		topics[1] = readOperand(it, ins.Rb)
		topics[2] = readOperand(it, ins.Rc)
		topics[3] = readOperand(it, ins.Rd)
		return OutcomeContinue, it.appendReceipt(Receipt{Kind: ReceiptLogEvent, Topics: topics})

	case OpGTF, OpGM:
		selector, index := splitGTFImm(ins.Imm)
		v, err := it.oracle.Query(selector, index)
		if err != nil {
			return OutcomeHalted, err
		}
		return OutcomeContinue, it.writeReg(ins.Ra, v)

	default:
		return OutcomeHalted, panicErr(PanicInvalidInstruction)
	}
}

// maybeSuppress applies the FLAG-bit0 panic-suppression policy: if set,
// clear dst and ERR=1 and continue; otherwise propagate the panic.
func (it *Interpreter) maybeSuppress(reason PanicReason, dst uint8) (Outcome, error) {
	if reason.suppressible() && it.regs.Read(RegFLAG)&1 != 0 {
		if err := it.writeReg(dst, 0); err != nil {
			return OutcomeHalted, err
		}
		it.setSystemReg(RegERR, 1)
		return OutcomeContinue, nil
	}
	return OutcomeHalted, panicErr(reason)
}

func (it *Interpreter) writeGuardedMemory(offset, value uint64) error {
	old, _ := it.mem.ReadBytes(offset, 8)
	if err := it.mem.WriteUint64(offset, value); err != nil {
		return err
	}
	if it.diff != nil {
		newBytes, _ := it.mem.ReadBytes(offset, 8)
		it.diff.recordMemoryRangeWrite(offset, old, newBytes)
	}
	return nil
}

// doCall pushes a CallFrame for the callee named by Ra, sets PC to its
// code base (offset 0 of the callee's loaded bytecode region at Rb), and
// points FP at that same new frame base.
func (it *Interpreter) doCall(ins instruction) (Outcome, error) {
	id := idFromWord(readOperand(it, ins.Ra))
	codeBase := readOperand(it, ins.Rb)
	if it.code == nil {
		return OutcomeHalted, panicErr(PanicContractNotFound)
	}
	code, ok := it.code.CodeOf(id)
	if !ok {
		return OutcomeHalted, panicErr(PanicContractNotFound)
	}

	f := CallFrame{
		To:             id,
		SavedRegisters: it.regs.Snapshot(),
		CodeSize:       uint64(len(code)),
		A:              readOperand(it, ins.Rc),
		B:              readOperand(it, ins.Rd),
	}
	it.frames.push(f)
	if it.diff != nil {
		it.diff.recordVecAppend(vecFrames, it.frames.depth()-1, Receipt{}, f)
	}

	it.regs.SystemSet(RegFP, codeBase)
	it.regs.SystemSet(RegPC, codeBase)
	if err := it.appendReceipt(Receipt{Kind: ReceiptCall, ID: id}); err != nil {
		return OutcomeHalted, err
	}
	return OutcomeContinue, nil
}

// doRet pops the current frame, restores every saved register, writes
// the return value to RET, and appends a Return receipt.
func (it *Interpreter) doRet(ins instruction, advance *bool) (Outcome, error) {
	retVal := readOperand(it, ins.Ra)
	f, ok := it.frames.pop()
	if !ok {
		// Top-level script RET halts the transaction successfully.
		it.result = retVal
		return OutcomeHalted, it.appendReceipt(Receipt{Kind: ReceiptReturn})
	}
	if it.diff != nil {
		it.diff.recordVecPop(vecFrames, it.frames.depth(), Receipt{}, f)
	}
	it.regs.Restore(f.SavedRegisters)
	it.regs.SystemSet(RegRET, retVal)
	it.regs.SystemSet(RegPC, f.SavedRegisters[RegPC]+4)
	*advance = false
	return OutcomeContinue, it.appendReceipt(Receipt{Kind: ReceiptReturn, ID: f.To})
}

// doRetD follows the same unwind as doRet, then publishes the data region
// as a LogData receipt carrying the bytes and their SHA-256 digest.
func (it *Interpreter) doRetD(ins instruction, advance *bool) (Outcome, error) {
	dataOffset := readOperand(it, ins.Rb)
	dataLen := readOperand(it, ins.Rc)
	data, err := it.mem.ReadBytes(dataOffset, dataLen)
	if err != nil {
		return OutcomeHalted, err
	}
	outcome, err := it.doRet(ins, advance)
	if err != nil {
		return outcome, err
	}
	return outcome, it.appendReceipt(Receipt{Kind: ReceiptLogData, Data: data, DataHash: common.Hash(sha256.Sum256(data))})
}
