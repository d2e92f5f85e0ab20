package cpu

// Store is the microprogram store: a read-only control store table and the
// control address selecting the active word.
type Store struct {
	table   *Table
	address uint16
}

// NewStore creates a microprogram store over a table.
// A nil table selects the fixed microprogram.
func NewStore(table *Table) (ms *Store) {
	ms = &Store{table: table}
	return
}

func (ms *Store) words() *Table {
	if ms.table == nil {
		return &microcode
	}
	return ms.table
}

// WordAt looks up the control store word at an address.
func (ms *Store) WordAt(address uint16) Signal {
	return ms.words()[address%CONTROL_STORE_SIZE]
}

// Word returns the word at the current control address.
func (ms *Store) Word() Signal {
	return ms.WordAt(ms.address)
}

// Address returns the current control address.
func (ms *Store) Address() uint16 {
	return ms.address
}

// SetAddress sets the current control address.
func (ms *Store) SetAddress(address uint16) {
	ms.address = address % CONTROL_STORE_SIZE
}

// Reset the control address to 0.
func (ms *Store) Reset() {
	ms.address = ADDR_RESET
}
