package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchevents/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finnishtransportagency/raita-sub002/internal/mock"
	"github.com/finnishtransportagency/raita-sub002/telemetry"
)

func TestEventsHookPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockEventsAPI(ctrl)

	client.EXPECT().
		PutEvents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, in *cloudwatchevents.PutEventsInput, _ ...func(*cloudwatchevents.Options)) (*cloudwatchevents.PutEventsOutput, error) {
			require.Len(t, in.Entries, 1)
			e := in.Entries[0]
			assert.Equal(t, "bus", aws.ToString(e.EventBusName))
			assert.Equal(t, "raita.extract", aws.ToString(e.Source))
			assert.Equal(t, telemetry.EventDetailType, aws.ToString(e.DetailType))
			assert.Equal(t, []string{"s3://src/a.zip"}, e.Resources)

			var detail map[string]any
			require.NoError(t, json.Unmarshal([]byte(aws.ToString(e.Detail)), &detail))
			assert.Equal(t, float64(3), detail["UploadedEntries"])
			return &cloudwatchevents.PutEventsOutput{}, nil
		})

	hook := telemetry.NewEventsHook(client, "bus", "raita.extract", nil)
	hook(context.Background(), &telemetry.Data{Archive: "s3://src/a.zip", UploadedEntries: 3})
}

func TestEventsHookSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockEventsAPI(ctrl)

	client.EXPECT().
		PutEvents(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("throttled"))
	client.EXPECT().
		PutEvents(gomock.Any(), gomock.Any()).
		Return(&cloudwatchevents.PutEventsOutput{
			Entries: []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("boom")}},
		}, nil)

	hook := telemetry.NewEventsHook(client, "bus", "raita.extract", nil)
	hook(context.Background(), &telemetry.Data{})
	hook(context.Background(), &telemetry.Data{})
}
