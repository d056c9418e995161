/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package service

import (
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg"
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
)

// AppServiceCreator lets main be tested without bootstrapping an EdgeX service
type AppServiceCreator interface {
	NewAppServiceWithTargetType(
		serviceKey string,
		targetType interface{},
	) (interfaces.ApplicationService, bool)
}

// AppService creates services whose pipelines receive the raw message bytes
type AppService struct{}

func (a *AppService) NewAppServiceWithTargetType(
	serviceKey string,
	targetType interface{},
) (interfaces.ApplicationService, bool) {
	return pkg.NewAppServiceWithTargetType(serviceKey, targetType)
}
