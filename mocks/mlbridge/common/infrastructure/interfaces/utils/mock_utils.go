package utils

import (
	"context"
	"strings"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces/mocks"
	mocks3 "github.com/edgexfoundry/go-mod-bootstrap/v3/bootstrap/interfaces/mocks"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

type MockUtils struct {
	AppService         *mocks.ApplicationService
	AppSettings        map[string]string
	AppFunctionContext *mocks.AppFunctionContext
	SecretProvider     *mocks3.SecretProvider
}

// NewApplicationServiceMock wires an ApplicationService mock with a no-op logger.
// A setting value starting with "ERR:" makes GetAppSetting return an error for that key,
// settings not listed are reported as not found.
func NewApplicationServiceMock(appSettings map[string]string) *MockUtils {
	mockUtils := new(MockUtils)
	lc := logger.NewMockClient()

	mockAppService := &mocks.ApplicationService{}
	mockUtils.AppService = mockAppService
	mockAppService.On("LoggingClient").Return(lc)
	mockAppService.On("AppContext").Return(context.Background())

	if appSettings == nil {
		appSettings = make(map[string]string)
	}
	mockUtils.AppSettings = appSettings
	for k, v := range appSettings {
		if strings.HasPrefix(v, "ERR:") {
			e := errors.New(v)
			mockAppService.On("GetAppSetting", k).Return("", e)
			mockAppService.On("GetAppSettingStrings", k).Return([]string{}, e)
		} else {
			mockAppService.On("GetAppSetting", k).Return(v, nil)
			mockAppService.On("GetAppSettingStrings", k).Return(strings.Split(v, ","), nil)
		}
	}
	mockAppService.On("GetAppSetting", mock.Anything).Return("", errors.New("setting not found"))
	mockAppService.On("GetAppSettingStrings", mock.Anything).Return([]string{}, errors.New("setting not found"))

	ctx := &mocks.AppFunctionContext{}
	ctx.On("LoggingClient").Return(lc)
	ctx.On("PipelineId").Return("erty-876trfv-dsdf")
	ctx.On("CorrelationID").Return("erty-876trfv-dsdf2")
	ctx.On("SetResponseData", mock.Anything).Return()
	ctx.On("SetResponseContentType", mock.Anything).Return()
	mockUtils.AppFunctionContext = ctx

	mockSecretProvider := &mocks3.SecretProvider{}
	mockSecretProvider.On("GetSecret", "redisdb", "username", "password").Return(map[string]string{"username": "username", "password": "password"}, nil)
	mockSecretProvider.On("GetSecret", "mbconnection").Return(map[string]string{}, nil)
	mockUtils.SecretProvider = mockSecretProvider
	mockAppService.On("SecretProvider").Return(mockSecretProvider)

	return mockUtils
}
