package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"settlement-profit/internal/domain"
)

type pendingCharge struct {
	fee decimal.Decimal
	seq int
}

// Reconciler attributes bare logistics charges to the next sale of the same barcode.
// It only looks backward: a charge recorded after a sale is never merged into it.
// A Reconciler serves a single pass and must not be shared between passes.
type Reconciler struct {
	pending map[string]*pendingCharge
	seq     int
}

// NewReconciler returns a Reconciler with no pending charges.
func NewReconciler() *Reconciler {
	return &Reconciler{pending: make(map[string]*pendingCharge)}
}

// Step consumes one row in source order. It returns the entry to emit, or false when
// the row was absorbed into the pending charges.
func (r *Reconciler) Step(row domain.RawRow) (domain.ReconciledEntry, bool) {
	fee := domain.Amount(row.DeliveryServiceFee)

	if row.IsBareLogistics() {
		charge, ok := r.pending[row.Barcode]
		if !ok {
			r.seq++
			charge = &pendingCharge{fee: decimal.Zero, seq: r.seq}
			r.pending[row.Barcode] = charge
		}
		charge.fee = charge.fee.Add(fee)
		return domain.ReconciledEntry{}, false
	}

	if row.IsSale() {
		if charge, ok := r.pending[row.Barcode]; ok {
			fee = fee.Add(charge.fee)
			delete(r.pending, row.Barcode)
		}
	}

	return domain.ReconciledEntry{
		Barcode:            row.Barcode,
		SupplierArticle:    row.SupplierArticle,
		PaymentReason:      row.PaymentReason,
		PayoutAmount:       row.PayoutAmount,
		DeliveryServiceFee: fee,
		DocumentType:       row.DocumentType,
	}, true
}

// Pending returns the number of barcodes holding an unmatched charge.
func (r *Reconciler) Pending() int {
	return len(r.pending)
}

// Flush emits one standalone logistics entry per barcode whose charge never met a sale,
// in order of first accumulation, and clears the pending state.
func (r *Reconciler) Flush() []domain.ReconciledEntry {
	barcodes := make([]string, 0, len(r.pending))
	for barcode := range r.pending {
		barcodes = append(barcodes, barcode)
	}
	sort.Slice(barcodes, func(i, j int) bool {
		return r.pending[barcodes[i]].seq < r.pending[barcodes[j]].seq
	})

	entries := make([]domain.ReconciledEntry, 0, len(barcodes))
	for _, barcode := range barcodes {
		entries = append(entries, domain.ReconciledEntry{
			Barcode:            barcode,
			PaymentReason:      domain.ReasonLogistics,
			PayoutAmount:       decimal.Zero,
			DeliveryServiceFee: r.pending[barcode].fee,
		})
	}
	r.pending = make(map[string]*pendingCharge)
	return entries
}
