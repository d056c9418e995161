/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package worker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"mlbridge/common/client"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/dto/job"
	"mlbridge/ml-job-service/pkg/helpers"
)

// JobClient makes single calls to the prediction worker, retries are owned by the caller
type JobClient interface {
	CreateJob(ctx context.Context, request job.CreateJobRequest) (string, error)
	SubmitData(ctx context.Context, jobID string, csv string) error
	GetJob(ctx context.Context, jobID string) (job.JobStatusResponse, error)
}

type HTTPJobClient struct {
	workerURL  string
	httpClient client.HTTPClient
	lc         logger.LoggingClient
}

func NewJobClient(workerURL string, httpClient client.HTTPClient, lc logger.LoggingClient) (*HTTPJobClient, error) {
	if strings.TrimSpace(workerURL) == "" {
		return nil, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "worker url must not be blank")
	}
	return &HTTPJobClient{
		workerURL:  strings.TrimRight(workerURL, "/"),
		httpClient: httpClient,
		lc:         lc,
	}, nil
}

func (c *HTTPJobClient) jobURL(jobID string) string {
	return c.workerURL + "/" + url.PathEscape(jobID)
}

func (c *HTTPJobClient) CreateJob(ctx context.Context, request job.CreateJobRequest) (string, error) {
	c.lc.Debugf("creating job on %s with %d models", c.workerURL, len(request.Models))
	var response job.CreateJobResponse
	if err := helpers.DoJSONRequest(ctx, c.httpClient, http.MethodPost, c.workerURL, request, &response); err != nil {
		return "", err
	}
	if strings.TrimSpace(response.ID) == "" {
		return "", bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeTransport, "worker returned a job without id")
	}
	return response.ID, nil
}

func (c *HTTPJobClient) SubmitData(ctx context.Context, jobID string, csv string) error {
	c.lc.Debugf("submitting %d bytes of data to job %s", len(csv), jobID)
	_, err := helpers.DoRequest(ctx, c.httpClient, http.MethodPost, c.jobURL(jobID), client.ContentTypeCSV, []byte(csv))
	return err
}

func (c *HTTPJobClient) GetJob(ctx context.Context, jobID string) (job.JobStatusResponse, error) {
	var status job.JobStatusResponse
	if err := helpers.DoJSONRequest(ctx, c.httpClient, http.MethodGet, c.jobURL(jobID), nil, &status); err != nil {
		return job.JobStatusResponse{}, err
	}
	if status.Status == "" {
		return job.JobStatusResponse{}, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeTransport,
			fmt.Sprintf("worker returned no status for job %s", jobID))
	}
	if status.ID == "" {
		status.ID = jobID
	}
	return status, nil
}
