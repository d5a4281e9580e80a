// Package bitpack packs named fixed-width unsigned fields into a single
// unsigned integer.
//
// A layout is declared as an ordered list of fields, each 1 to 128 bits
// wide, totalling at most 128 bits. The storage integer is the smallest of
// 8, 16, 32, 64 or 128 bits that holds the total. Fields are placed most
// significant first: the first declared field occupies the highest used
// bits and the last field ends at bit 0. Bits above the total are unused
// and preserved.
//
// # Architecture Overview
//
//	bitpack/           Root package with definition shorthands
//	├── bitrange/      Generic bit-range read/write on unsigned integers
//	├── schema/        Field lists, validation and struct tag binding
//	├── layout/        Storage selection, offsets, masks and memoization
//	├── packed/        Values, accessors and struct packing
//	├── codec/         Fixed, ULEB128 and bitstring encodings
//	├── decl/          Text and YAML declaration front ends
//	├── gen/           Go source generation of typed accessors
//	├── witflags/      WIT flags types as 1-bit layouts
//	├── errors/        Structured error types
//	└── cmd/bitpack/   Code generator and interactive inspector
//
// # Quick Start
//
//	l, err := bitpack.Define("Bits",
//	    bitpack.Field("flag", 1),
//	    bitpack.Field("counter", 7),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	flag := packed.MustField(l, "flag")
//	counter := packed.MustField(l, "counter")
//
//	v := packed.New(l)
//	v.Put(flag, 1).Put(counter, 42)
//	fmt.Printf("%#x\n", v.Uint64()) // 0xaa
//
// # Truncation
//
// Setters keep the low Width bits of their input and never fail: storing
// 200 in a u7 field stores 72. Checked setters report KindOverflow instead.
//
// # Thread Safety
//
// Layouts and layout.Compiler are safe for concurrent use. A Compiler
// memoizes layouts by schema; nothing is cached process-wide. A packed.Value is
// plain data; copies are independent, but a single Value must not be
// mutated from several goroutines without synchronization.
package bitpack
