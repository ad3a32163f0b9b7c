package domain

// TxManager runs a function inside one atomic unit of work. Everything the
// function writes through the repositories' Tx variants commits together or
// not at all.
type TxManager interface {
	WithinTx(fn func(tx interface{}) error) error
}
