package notification

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/retry"

	mocks "github.com/TimeBox-aste/obo-space-web/internal/mocks/service/notification"
	"github.com/TimeBox-aste/obo-space-web/internal/model"
	notifrepo "github.com/TimeBox-aste/obo-space-web/internal/repository/notification"
)

func newDelivery() model.Delivery {
	return model.Delivery{
		NotificationID: uuid.New(),
		Status:         model.StatusPending,
		Attempts:       0,
		MaxAttempts:    3,
		Email:          "a@x.com",
		Token:          uuid.NewString(),
	}
}

func TestService_MarkDelivered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, cacheMock)

	d := newDelivery()
	strategy := retry.Strategy{}

	repoMock.EXPECT().MarkSuccess(gomock.Any(), d.NotificationID, gomock.Any()).Return(nil)
	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, d.Token, model.StatusSuccess).Return(nil)

	err := svc.MarkDelivered(context.Background(), strategy, d)
	assert.NoError(t, err)
}

func TestService_RecordFailure_Retryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, cacheMock)

	d := newDelivery()
	strategy := retry.Strategy{}

	repoMock.EXPECT().RecordFailure(gomock.Any(), d.NotificationID).Return(1, 3, nil)

	retryable, err := svc.RecordFailure(context.Background(), strategy, d)
	assert.NoError(t, err)
	assert.True(t, retryable)
}

func TestService_RecordFailure_Terminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, cacheMock)

	d := newDelivery()
	strategy := retry.Strategy{}

	repoMock.EXPECT().RecordFailure(gomock.Any(), d.NotificationID).Return(3, 3, nil)
	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, d.Token, model.StatusFailed).Return(nil)

	retryable, err := svc.RecordFailure(context.Background(), strategy, d)
	assert.NoError(t, err)
	assert.False(t, retryable)
}

func TestService_StatusByToken_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(nil, cacheMock)

	token := uuid.NewString()
	strategy := retry.Strategy{}

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, token).Return(model.StatusPending, nil)

	status, err := svc.StatusByToken(context.Background(), strategy, token)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)
}

func TestService_StatusByToken_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, cacheMock)

	token := uuid.NewString()
	strategy := retry.Strategy{}

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, token).Return("", redis.Nil)
	repoMock.EXPECT().StatusByToken(gomock.Any(), token).Return(model.StatusSuccess, nil)
	cacheMock.EXPECT().SetWithRetry(gomock.Any(), strategy, token, model.StatusSuccess).Return(nil)

	status, err := svc.StatusByToken(context.Background(), strategy, token)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, status)
}

func TestService_StatusByToken_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoMock := mocks.NewMocknotificationRepository(ctrl)
	cacheMock := mocks.NewMockcache(ctrl)
	svc := NewService(repoMock, cacheMock)

	token := uuid.NewString()
	strategy := retry.Strategy{}

	cacheMock.EXPECT().GetWithRetry(gomock.Any(), strategy, token).Return("", redis.Nil)
	repoMock.EXPECT().StatusByToken(gomock.Any(), token).Return("", notifrepo.ErrNotificationNotFound)

	_, err := svc.StatusByToken(context.Background(), strategy, token)
	assert.ErrorIs(t, err, notifrepo.ErrNotificationNotFound)
}
