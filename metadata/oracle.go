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

package metadata

import "github.com/probeum/rvm/vm"

// Oracle implements vm.MetadataOracle over a fixed ExecutableTransaction,
// the value an Interpreter is wired to via SetMetadataOracle. The wire
// selector is just Selector's own numeric value, reinterpreted here.
type Oracle struct {
	Tx *ExecutableTransaction
}

// Query implements vm.MetadataOracle.
func (o Oracle) Query(selector uint16, index int) (uint64, error) {
	return query(o.Tx, Selector(selector), index)
}

// PredicateOracle is Oracle with GetGasPrice forbidden, the data source a
// predicate's interpreter is wired to: predicates are pure functions of
// their input and a read-only transaction view, and must never observe
// the gas price that will be charged.
type PredicateOracle struct {
	Tx *ExecutableTransaction
}

// Query implements vm.MetadataOracle.
func (o PredicateOracle) Query(selector uint16, index int) (uint64, error) {
	if Selector(selector) == SelectorPolicyGasPrice {
		return 0, vm.NewPanic(vm.PanicCanNotGetGasPriceInPredicate)
	}
	return query(o.Tx, Selector(selector), index)
}
