// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// AI 生成
	ai := v1.Group("/ai")
	{
		ai.POST("/generate", h.Generation.Generate)
		ai.POST("/generate-image", h.Generation.GenerateImage)
		ai.GET("/generations/:gid", h.Generation.GetGeneration)
		ai.PUT("/generations/:gid/save", h.Generation.SaveGeneration)
		ai.POST("/generations/:gid/promote-character", h.Generation.PromoteCharacter)
		ai.POST("/characters/:cid/expand", h.Generation.ExpandCharacter)
	}

	// 项目管理
	projects := v1.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", h.Project.CreateProject)
		projects.GET("/:pid", h.Project.GetProject)
		projects.PUT("/:pid", h.Project.UpdateProject)
		projects.DELETE("/:pid", h.Project.DeleteProject)

		// 协作者
		projects.POST("/:pid/collaborators", h.Project.AddCollaborator)
		projects.DELETE("/:pid/collaborators/:uid", h.Project.RemoveCollaborator)

		// 项目下的生成记录
		projects.GET("/:pid/generations", h.Generation.ListGenerations)

		// 项目下的叙事实体
		projects.GET("/:pid/characters", h.Character.ListCharacters)
		projects.POST("/:pid/characters", h.Character.CreateCharacter)
		projects.GET("/:pid/plots", h.Plot.ListPlots)
		projects.POST("/:pid/plots", h.Plot.CreatePlot)
		projects.GET("/:pid/settings", h.Setting.ListSettings)
		projects.POST("/:pid/settings", h.Setting.CreateSetting)
		projects.GET("/:pid/objects", h.StoryObject.ListStoryObjects)
		projects.POST("/:pid/objects", h.StoryObject.CreateStoryObject)
		projects.GET("/:pid/chapters", h.Chapter.ListChapters)
		projects.POST("/:pid/chapters", h.Chapter.CreateChapter)
	}

	// 角色管理
	characters := v1.Group("/characters")
	{
		characters.GET("/:cid", h.Character.GetCharacter)
		characters.PUT("/:cid", h.Character.UpdateCharacter)
		characters.DELETE("/:cid", h.Character.DeleteCharacter)
	}

	// 情节管理
	plots := v1.Group("/plots")
	{
		plots.GET("/:plid", h.Plot.GetPlot)
		plots.PUT("/:plid", h.Plot.UpdatePlot)
		plots.DELETE("/:plid", h.Plot.DeletePlot)
	}

	// 设定管理
	settings := v1.Group("/settings")
	{
		settings.GET("/:sid", h.Setting.GetSetting)
		settings.PUT("/:sid", h.Setting.UpdateSetting)
		settings.DELETE("/:sid", h.Setting.DeleteSetting)
	}

	// 物品管理
	objects := v1.Group("/objects")
	{
		objects.GET("/:oid", h.StoryObject.GetStoryObject)
		objects.PUT("/:oid", h.StoryObject.UpdateStoryObject)
		objects.DELETE("/:oid", h.StoryObject.DeleteStoryObject)
	}

	// 章节管理
	chapters := v1.Group("/chapters")
	{
		chapters.GET("/:chid", h.Chapter.GetChapter)
		chapters.PUT("/:chid", h.Chapter.UpdateChapter)
		chapters.DELETE("/:chid", h.Chapter.DeleteChapter)
	}
}
