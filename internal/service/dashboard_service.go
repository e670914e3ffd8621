package service

import (
	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/repository"
)

// DashboardService assembles the role-specific home views: a teacher sees
// their own content and how students scored on it, a student sees the course
// catalogue annotated with their latest score per quiz.
type DashboardService struct {
	Documents *repository.DocumentRepository
	Videos    *repository.VideoRepository
	Results   *repository.QcmResultRepository
	Users     *repository.UserRepository
}

func NewDashboardService(documents *repository.DocumentRepository, videos *repository.VideoRepository, results *repository.QcmResultRepository, users *repository.UserRepository) *DashboardService {
	return &DashboardService{Documents: documents, Videos: videos, Results: results, Users: users}
}

type TeacherDashboard struct {
	Documents []model.Document `json:"documents"`
	Videos    []model.Video    `json:"videos"`
	Results   []StudentResult  `json:"results"`
}

// StudentResult is a teacher-facing row: who scored what on which quiz.
type StudentResult struct {
	model.QcmResult
	StudentName string `json:"studentName"`
}

func (s *DashboardService) ForTeacher(teacherID uint) (*TeacherDashboard, error) {
	docs, err := s.Documents.FindByUser(teacherID)
	if err != nil {
		return nil, err
	}
	videos, err := s.Videos.FindByUser(teacherID)
	if err != nil {
		return nil, err
	}
	results, err := s.Results.FindByProfessor(teacherID)
	if err != nil {
		return nil, err
	}

	rows := make([]StudentResult, 0, len(results))
	for _, res := range results {
		row := StudentResult{QcmResult: res}
		if user, err := s.Users.FindByID(res.UserID); err == nil {
			row.StudentName = user.FirstName + " " + user.LastName
		}
		rows = append(rows, row)
	}

	return &TeacherDashboard{Documents: docs, Videos: videos, Results: rows}, nil
}

type StudentDashboard struct {
	Documents []model.Document         `json:"documents"`
	Videos    []model.Video            `json:"videos"`
	Scores    map[uint]model.QcmResult `json:"scores"`
}

func (s *DashboardService) ForStudent(studentID uint) (*StudentDashboard, error) {
	docs, err := s.Documents.FindAll()
	if err != nil {
		return nil, err
	}
	videos, err := s.Videos.FindAll()
	if err != nil {
		return nil, err
	}
	scores, err := s.Results.FindLatestPerQuiz(studentID)
	if err != nil {
		return nil, err
	}

	return &StudentDashboard{Documents: docs, Videos: videos, Scores: scores}, nil
}
