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

// MetadataOracle answers GTF/GM queries for the transaction this
// interpreter is executing. Selector is an opaque wire value: package
// metadata owns the real Selector enum and adapts it to this shape so vm
// never imports metadata (metadata imports vm for PanicReason, so the
// dependency can only run one way).
type MetadataOracle interface {
	Query(selector uint16, index int) (uint64, error)
}

// SetMetadataOracle wires the GTF/GM data source for this transaction.
func (it *Interpreter) SetMetadataOracle(o MetadataOracle) { it.oracle = o }

type noMetadataOracle struct{}

func (noMetadataOracle) Query(uint16, int) (uint64, error) {
	return 0, panicErr(PanicInvalidMetadataIdentifier)
}

// gtfSelectorBits is how many low bits of a GTF/GM instruction's wide
// immediate hold the input index, with the remaining high bits holding
// the selector.
const gtfSelectorBits = 8

func splitGTFImm(imm uint32) (selector uint16, index int) {
	return uint16(imm >> gtfSelectorBits), int(imm & (1<<gtfSelectorBits - 1))
}
