package pagecache

import "context"

// DataProvider supplies the backing dataset one page at a time. It is
// the cache's only I/O boundary. Implementations must return pages as
// stable ordered slices; the cache treats items as opaque values and
// never inspects them.
type DataProvider[T any] interface {
	// TotalCount reports the total number of items in the dataset.
	// Called once per Initialize.
	TotalCount(ctx context.Context) (int, error)

	// FetchPage returns the 1-based page of the given size. The last
	// page of the dataset may be shorter than pageSize.
	FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, error)
}

// ItemLookup is an optional DataProvider capability for direct item
// access bypassing pagination. GetItemByID uses it when the provider
// implements it.
type ItemLookup[T any] interface {
	// FetchItem returns the item with the given ID.
	FetchItem(ctx context.Context, id string) (T, error)
}
