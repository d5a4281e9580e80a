// Package packed implements values of a planned bit layout.
//
// A Value pairs a shared, immutable *layout.Layout with its own storage
// integer. Values are plain data: assigning or passing one by value copies
// the storage, and the copies evolve independently. A single Value is not
// safe for concurrent mutation; distinct values need no coordination.
//
// Fields are read and written through an Accessor resolved once per layout,
// or by name:
//
//	flag := packed.MustField(l, "flag")
//	counter := packed.MustField(l, "counter")
//
//	v := packed.New(l)
//	v.Put(flag, 1).Put(counter, 42)
//	v.Raw() // 0xAA
//
// Setters truncate input wider than the field to its low Width bits and
// never fail. SetChecked and PutChecked report KindOverflow instead and
// leave the value unchanged. Bits between the total field width and the
// storage width are preserved by every setter and reachable only through
// the raw storage.
package packed
