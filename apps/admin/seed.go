package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/user"
)

// seed provisions a demo classroom: a teacher, two students, a class with
// active memberships and a published task. Safe to re-run.
func (cli *commandLine) seed(pwd string) error {
	teacher, err := cli.getOrCreateUser("Demo Teacher", "demo.teacher@kosoa.cd", pwd, user.TeacherRoles)
	if err != nil {
		return err
	}
	students := make([]user.User, 0, 2)
	for i := 1; i <= 2; i++ {
		stu, err := cli.getOrCreateUser(
			fmt.Sprintf("Demo Student %d", i),
			fmt.Sprintf("demo.student%d@kosoa.cd", i),
			pwd,
			user.StudentRoles,
		)
		if err != nil {
			return err
		}
		students = append(students, stu)
	}

	cls, err := cli.getOrCreateClass(teacher)
	if err != nil {
		return err
	}

	for _, stu := range students {
		nm := membership.NewMembership{
			UserID:  stu.ID,
			ClassID: cls.ID,
			Role:    membership.RoleStudent,
			Status:  membership.StatusActive,
		}
		if _, err = cli.mbSvc.Create(nm); err != nil && !isAlreadyMember(err) {
			return err
		}
	}

	if err = cli.ensureDemoTask(cls, teacher); err != nil {
		return err
	}

	fmt.Printf("seeded class %q (%s) with %d students\n", cls.Name, cls.UID, len(students))
	return nil
}

func (cli *commandLine) getOrCreateUser(name, email, pwd string, roles []string) (user.User, error) {
	usr, err := cli.usrSvc.GetByUsernameOrEmail(email)
	if err == nil {
		return usr, nil
	}
	if errors.Cause(err) != user.ErrNotFound {
		return user.User{}, err
	}

	nu := user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	}
	if err = nu.Validate(cli.usrSvc); err != nil {
		return user.User{}, err
	}
	return cli.usrSvc.Create(nu)
}

func (cli *commandLine) getOrCreateClass(teacher user.User) (class.Class, error) {
	classes, err := cli.classSvc.QueryForMember(teacher.ID)
	if err != nil {
		return class.Class{}, err
	}
	for _, cls := range classes {
		if cls.Name == demoClassName {
			return cls, nil
		}
	}
	return cli.classSvc.Create(teacher, class.NewClass{
		Name:        demoClassName,
		Description: "Sandbox class created by the seed command.",
		Level:       "demo",
		Subject:     "General",
	})
}

func (cli *commandLine) ensureDemoTask(cls class.Class, teacher user.User) error {
	tasks, err := cli.taskSvc.QueryByClass(cls.ID)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.Title == demoTaskTitle {
			return nil
		}
	}
	t, err := cli.taskSvc.Create(cls.ID, teacher.ID, task.NewTask{
		Title:       demoTaskTitle,
		Description: "Submit anything; this task exists so the demo class has something to correct.",
		MaxGrade:    20,
	})
	if err != nil {
		return err
	}
	_, err = cli.taskSvc.UpdateStatus(t, task.StatusPublished)
	return err
}

func isAlreadyMember(err error) bool {
	var verr *core.ValidationError
	return errors.As(err, &verr) && verr.Err == membership.ErrAlreadyMember
}

const (
	demoClassName = "Demo Class"
	demoTaskTitle = "Demo Task"
)
