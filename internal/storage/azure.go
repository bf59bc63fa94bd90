package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"fileproxy/internal/pkg/httprange"
)

// AzureAdapter streams blobs from Azure Blob Storage using an account-level
// SAS token.
//
// Credential keys: account_name, sas_token, service_url (optional override
// for sovereign clouds / Azurite).
// Location keys: container, path.
type AzureAdapter struct{}

func NewAzureAdapter() *AzureAdapter { return &AzureAdapter{} }

func (*AzureAdapter) Provider() string { return ProviderAzure }

func (a *AzureAdapter) Open(ctx context.Context, creds, location map[string]string, rng *httprange.Range) (io.ReadCloser, *Metadata, error) {
	serviceURL := creds["service_url"]
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", creds["account_name"])
	}
	sasURL := serviceURL + "?" + creds["sas_token"]

	client, err := azblob.NewClientWithNoCredential(sasURL, nil)
	if err != nil {
		return nil, nil, &Error{Provider: ProviderAzure, Op: "configure client", Err: err}
	}

	opts := &azblob.DownloadStreamOptions{}
	if rng != nil {
		// Azure ranges are offset+count, not start-end; count 0 means
		// "to the end of the blob".
		hr := azblob.HTTPRange{Offset: rng.Start}
		if rng.End != nil {
			hr.Count = *rng.End - rng.Start + 1
		}
		opts.Range = hr
	}

	blobClient := client.ServiceClient().
		NewContainerClient(location["container"]).
		NewBlobClient(location["path"])

	resp, err := blobClient.DownloadStream(ctx, opts)
	if err != nil {
		return nil, nil, &Error{Provider: ProviderAzure, Op: "download stream", Err: err}
	}

	meta := &Metadata{ContentLength: -1}
	if resp.ContentType != nil {
		meta.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		meta.ContentLength = *resp.ContentLength
	}
	if resp.ContentRange != nil {
		meta.ContentRange = *resp.ContentRange
	}
	if resp.ETag != nil {
		meta.ETag = string(*resp.ETag)
	}

	return resp.Body, meta, nil
}
