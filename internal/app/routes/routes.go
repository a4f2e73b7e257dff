package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emrekoc/registrar/internal/app/controllers"
	"github.com/emrekoc/registrar/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	instructorController *controllers.InstructorController,
	departmentController *controllers.DepartmentController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/:id", studentController.GetStudent)
		students.POST("", studentController.CreateStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	instructors := v1.Group("/instructors")
	{
		instructors.GET("", instructorController.ListInstructors)
		instructors.GET("/:id", instructorController.GetInstructor)
		instructors.POST("", instructorController.CreateInstructor)
		instructors.PUT("/:id", instructorController.UpdateInstructor)
		instructors.DELETE("/:id", instructorController.DeleteInstructor)
	}

	departments := v1.Group("/departments")
	{
		departments.GET("", departmentController.ListDepartments)
		departments.GET("/:id", departmentController.GetDepartment)
		departments.POST("", departmentController.CreateDepartment)
		// Updates and deletes carry the row version token for the
		// concurrency check.
		departments.PUT("/:id", departmentController.UpdateDepartment)
		departments.DELETE("/:id", departmentController.DeleteDepartment)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.POST("", courseController.CreateCourse)
		courses.PUT("/:id", courseController.UpdateCourse)
		courses.DELETE("/:id", courseController.DeleteCourse)
		courses.PUT("/:id/instructors", courseController.SetCourseInstructors)
	}

	enrollments := v1.Group("/enrollments")
	{
		enrollments.GET("", enrollmentController.ListEnrollments)
		enrollments.GET("/:id", enrollmentController.GetEnrollment)
		enrollments.POST("", enrollmentController.CreateEnrollment)
		enrollments.PUT("/:id", enrollmentController.UpdateEnrollment)
		enrollments.DELETE("/:id", enrollmentController.DeleteEnrollment)
	}

	// Health check endpoint
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
