package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/costline/internal/project"
)

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *project.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *project.MockRepository) {
				m.EXPECT().
					ListProjects(gomock.Any()).
					Return([]*project.Project{
						{ID: uuid.New(), Name: "Ashburn DC1", Aliases: []string{"24-5-072"}},
						{ID: uuid.New(), Name: "Reno Campus"},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "RepoError",
			setupMock: func(m *project.MockRepository) {
				m.EXPECT().
					ListProjects(gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := project.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := project.NewService(repo).List(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "listing projects")

				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}
