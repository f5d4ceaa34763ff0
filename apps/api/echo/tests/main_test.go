package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	echoapi "github.com/trezcool/kosoa/apps/api/echo"
	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/audit"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
	"github.com/trezcool/kosoa/core/workflow"
	emailsvc "github.com/trezcool/kosoa/services/email"
	logsvc "github.com/trezcool/kosoa/services/logger"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

var (
	app      echoapi.Server
	conf     *core.Config
	usrSvc   user.Service
	classSvc class.Service
	mbSvc    membership.Service
	taskSvc  task.Service
	trSvc    taskresource.Service
	subSvc   submission.Service
	corSvc   correction.Service
	annSvc   annotation.Service
	auditSvc audit.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		Debug:     false,
		TestMode:  true,
		AppName:   "Kosoa",
		SecretKey: "n0ts0s3cr3tk3y",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: time.Hour,
		},
	}

	db := inmemdb.NewDB()
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	wf := workflow.NewService()

	usrSvc = user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf)
	mbSvc = membership.NewService(inmemdb.NewMembershipRepository(db))
	classSvc = class.NewService(inmemdb.NewClassRepository(db), mbSvc)
	taskSvc = task.NewService(inmemdb.NewTaskRepository(db), wf)
	trSvc = taskresource.NewService(inmemdb.NewTaskResourceRepository(db))
	subSvc = submission.NewService(inmemdb.NewSubmissionRepository(db), wf)
	corSvc = correction.NewService(inmemdb.NewCorrectionRepository(db), wf, subSvc)
	annSvc = annotation.NewService(inmemdb.NewAnnotationRepository(db))
	auditSvc = audit.NewService(inmemdb.NewAuditRepository(db), logger)

	chains := access.NewChainResolver(usrSvc, classSvc, mbSvc, taskSvc, trSvc, subSvc, corSvc, annSvc)
	guard := access.NewGuard(chains, mbSvc)

	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			MailSvc:         mailSvc,
			UserSvc:         usrSvc,
			ClassSvc:        classSvc,
			MembershipSvc:   mbSvc,
			TaskSvc:         taskSvc,
			TaskResourceSvc: trSvc,
			SubmissionSvc:   subSvc,
			CorrectionSvc:   corSvc,
			AnnotationSvc:   annSvc,
			AuditSvc:        auditSvc,
			Guard:           guard,
			DisableReqLogs:  true,
		},
	)

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func do(req *http.Request, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	app.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

var usrSeq int

func createUser(t *testing.T, roles ...string) user.User {
	t.Helper()
	usrSeq++
	usr, err := usrSvc.Create(user.NewUser{
		Name:     fmt.Sprintf("User %d", usrSeq),
		Username: fmt.Sprintf("apiuser%02d", usrSeq),
		Email:    fmt.Sprintf("apiuser%02d@test.cd", usrSeq),
		Password: "S3cretPwd!",
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody(): %v: %s", err, rec.Body.String())
	}
}
