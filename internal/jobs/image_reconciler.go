package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/softline/vitrine/internal/metrics"
	"github.com/softline/vitrine/internal/models"
	"github.com/softline/vitrine/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const orphanDeleteConcurrency = 4

// ImageReferenceLister lists the file names referenced by product slots.
type ImageReferenceLister interface {
	ListImageReferences(ctx context.Context) ([]models.ImageReference, error)
}

// ReconcileReport is the outcome of one pass over the product image slots
// and the objects under the image prefix.
type ReconcileReport struct {
	Referenced int                     `json:"referenced"`
	Stored     int                     `json:"stored"`
	Orphans    []string                `json:"orphans"`
	Dangling   []models.ImageReference `json:"dangling"`
	Deleted    int                     `json:"deleted"`
}

// ImageReconciler compares slot references against the object store. Attach
// and remove are not atomic across the two stores, so objects nobody
// references (orphans) and references to missing objects (dangling) build
// up over time.
type ImageReconciler struct {
	products      ImageReferenceLister
	store         storage.ObjectStore
	metrics       *metrics.Metrics
	prefix        string
	deleteOrphans bool
}

func NewImageReconciler(products ImageReferenceLister, store storage.ObjectStore, m *metrics.Metrics, prefix string, deleteOrphans bool) *ImageReconciler {
	return &ImageReconciler{
		products:      products,
		store:         store,
		metrics:       m,
		prefix:        prefix,
		deleteOrphans: deleteOrphans,
	}
}

// Run performs one reconciliation pass. Dangling references are only
// reported; orphans are deleted when the reconciler was built with
// deleteOrphans.
func (r *ImageReconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	// Objects are listed before references are read. Attach writes the slot
	// before uploading, so every listed object already has its reference.
	keys, err := r.store.List(ctx, storage.Key(r.prefix, ""))
	if err != nil {
		zap.L().Error("image reconciliation failed", zap.Error(err))
		return nil, fmt.Errorf("list stored objects: %w", err)
	}
	refs, err := r.products.ListImageReferences(ctx)
	if err != nil {
		zap.L().Error("image reconciliation failed", zap.Error(err))
		return nil, fmt.Errorf("list image references: %w", err)
	}

	stored := make(map[string]bool, len(keys))
	for _, key := range keys {
		stored[storage.FileName(r.prefix, key)] = true
	}
	referenced := make(map[string]bool, len(refs))
	report := &ReconcileReport{Stored: len(keys), Orphans: []string{}, Dangling: []models.ImageReference{}}
	for _, ref := range refs {
		referenced[ref.FileName] = true
		if !stored[ref.FileName] {
			report.Dangling = append(report.Dangling, ref)
		}
	}
	report.Referenced = len(referenced)
	for _, key := range keys {
		if !referenced[storage.FileName(r.prefix, key)] {
			report.Orphans = append(report.Orphans, key)
		}
	}
	sort.Strings(report.Orphans)

	if r.deleteOrphans && len(report.Orphans) > 0 {
		report.Deleted = r.removeOrphans(ctx, report.Orphans)
	}

	r.metrics.Reconciled(len(report.Orphans)-report.Deleted, len(report.Dangling))

	for _, ref := range report.Dangling {
		zap.L().Warn("product image references missing object",
			zap.String("codpro", ref.CodPro), zap.String("slot", ref.Slot), zap.String("file", ref.FileName))
	}
	zap.L().Info("image reconciliation finished",
		zap.Int("referenced", report.Referenced),
		zap.Int("stored", report.Stored),
		zap.Int("orphans", len(report.Orphans)),
		zap.Int("dangling", len(report.Dangling)),
		zap.Int("deleted", report.Deleted))
	return report, nil
}

func (r *ImageReconciler) removeOrphans(ctx context.Context, keys []string) int {
	var deleted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(orphanDeleteConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			if err := r.store.Delete(gctx, key); err != nil {
				zap.L().Warn("failed to delete orphan image", zap.String("key", key), zap.Error(err))
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(deleted.Load())
}
