package ingest

//go:generate go tool mockgen -source=blob.go -destination=mock_blob_client_test.go -package=ingest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// blobClient is the subset of [*azblob.Client] the BlobSource needs.
type blobClient interface {
	// ListBlobNames returns every blob name in container starting with prefix.
	ListBlobNames(ctx context.Context, container, prefix string) ([]string, error)

	// Download maps to [azblob.Client.DownloadStream]
	Download(ctx context.Context, container, name string) (io.ReadCloser, error)
}

// BlobSource reads prediction files stored under a blob container prefix.
// Only blobs directly under the prefix are considered, mirroring a
// non-recursive directory glob.
type BlobSource struct {
	client    blobClient
	raw       string
	container string
	prefix    string
}

// NewBlobSource parses rawURL as
// https://<account>.blob.core.windows.net/<container>[/<prefix>] and
// authenticates with the default Azure credential chain.
func NewBlobSource(rawURL string) (*BlobSource, error) {
	serviceURL, container, prefix, err := parseBlobURL(rawURL)
	if err != nil {
		return nil, err
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure credential: %w", err)
	}

	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %s: %w", serviceURL, err)
	}

	return newBlobSource(&azblobClientWrapper{inner: client}, rawURL, container, prefix), nil
}

func newBlobSource(client blobClient, raw, container, prefix string) *BlobSource {
	return &BlobSource{client: client, raw: raw, container: container, prefix: prefix}
}

func parseBlobURL(rawURL string) (serviceURL, container, prefix string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", fmt.Errorf("parsing blob URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", "", "", fmt.Errorf("blob URL %q has no host", rawURL)
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if parts[0] == "" {
		return "", "", "", fmt.Errorf("blob URL %q has no container", rawURL)
	}
	container = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		prefix = strings.TrimSuffix(parts[1], "/") + "/"
	}
	return fmt.Sprintf("%s://%s/", u.Scheme, u.Host), container, prefix, nil
}

func (s *BlobSource) Glob(ctx context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	names, err := s.client.ListBlobNames(ctx, s.container, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.raw, err)
	}

	var matches []string
	for _, name := range names {
		rel := strings.TrimPrefix(name, s.prefix)
		if rel == "" || strings.Contains(rel, "/") {
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (s *BlobSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.client.Download(ctx, s.container, name)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", name, err)
	}
	return rc, nil
}

func (s *BlobSource) String() string {
	return s.raw
}

type azblobClientWrapper struct {
	inner *azblob.Client
}

func (w *azblobClientWrapper) ListBlobNames(ctx context.Context, container, prefix string) ([]string, error) {
	var opts azblob.ListBlobsFlatOptions
	if prefix != "" {
		opts.Prefix = to.Ptr(prefix)
	}

	var names []string
	pager := w.inner.NewListBlobsFlatPager(container, &opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (w *azblobClientWrapper) Download(ctx context.Context, container, name string) (io.ReadCloser, error) {
	resp, err := w.inner.DownloadStream(ctx, container, name, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
