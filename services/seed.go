package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/favytech/fta-backend/kvstore"
	"github.com/favytech/fta-backend/models"
	"github.com/favytech/fta-backend/store"
)

// Nội dung e-book mặc định
var defaultCourseContent = map[string]string{
	"1.1": "Nnadi Favour is a software engineer and digital educator passionate about making AI accessible to beginners. She turns complex concepts into fun, hands-on projects that anyone can understand.",
	"1.2": "This e-book guides you through AI in a practical way. You'll learn:\n\n• The basics of AI\n• Hands-on AI projects without coding\n• Step-by-step instructions for Machine Learning for Kids and Scratch\n• How to share and showcase your AI projects",
	"2.1": "Artificial Intelligence (AI) is when machines learn, think, and make decisions like humans. AI can solve problems, recognize patterns, and perform tasks automatically.\n\nExamples of AI in daily life:\n• Siri, Google Assistant\n• Netflix or YouTube recommendations\n• Self-driving cars\n• Smart home devices",
	"2.2": "AI is transforming how we live and work:\n\n• Education: Personalized learning and automated grading\n• Healthcare: Detecting diseases from scans\n• Games & Entertainment: Recommendations and AI-powered games\n• Transportation: Self-driving vehicles and traffic prediction\n• Daily Life: Smart devices and virtual assistants",
	"2.3": "You can create AI projects without programming using beginner-friendly tools. These tools let you:\n\n• Train AI to recognize text, images, or sounds\n• Connect AI models to Scratch for interactive projects\n• Learn AI concepts through practical experience",
	"3.1": "Machine Learning for Kids\n\nVisit machinelearningforkids.co.uk\n\n1. Click Sign Up\n2. If you don't have login credentials, reach out to the Help Center to generate a class account\n3. Enter the username and password provided\n4. Choose Text Project or Image Project depending on your AI task",
	"3.1.1": "Creating Your Account\n\n1. Visit Machine Learning for Kids website\n2. Click Sign Up\n3. Contact Help Center for class account credentials\n4. Enter username and password\n5. Select your project type (Text, Image, or Sound)",
	"3.1.2": "Navigating the Platform\n\n• Dashboard: View all your projects\n• Projects Tab: Create or manage AI projects\n• Training Examples: Add examples for the AI to learn\n• Labels: Categories the AI will recognize (e.g., Cat, Dog)\n• Train Model: Click to let AI learn\n• Test: Try new examples to check AI predictions\n\nExample:\nProject: Animal Detector\nLabels: Cat, Dog\nAdd 10 examples per label\nClick Train Model\nTest predictions",
	"3.1.3": "Connecting Machine Learning for Kids with Scratch\n\n1. Click Make in your trained project\n2. Select Scratch 3 integration\n3. Copy the API key or project URL\n4. Open Scratch → Extensions → Machine Learning for Kids → Add Extension\n5. Paste your API key to connect\n\nExample Project: Animal Detector Game\n• User types clues\n• AI predicts animal\n• Display result in Scratch",
	"3.2.1": "Scratch Basics (Navigation & Setup)\n\n• Workspace: Build your project here\n• Sprites: Characters or objects\n• Code Blocks: Drag-and-drop to program\n• Backdrops: Backgrounds\n• Green Flag: Start project\n\nStart Steps:\n1. Go to scratch.mit.edu → Click Create\n2. Explore categories: Motion, Looks, Sound, Events, Control, Sensing",
	"3.2.2": "Building Your First AI Project in Scratch\n\nExample: Animal Detector\n\n1. Add sprite (Cat)\n2. Go to Events → when green flag clicked\n3. Add Machine Learning for Kids → classify [user input]\n4. Use Control → if then to display AI result\n5. Test typing clues",
	"3.2.3": "Exporting Your Project\n\n1. Click File → Save to your computer → .sb3 file\n2. Share online: Share → Copy Link",
	"4":     "Hosting & Sharing Your AI Project\n\n• Host online: GitHub Pages, Scratch Online, or Google Drive\n• Share: Copy the link for friends or teachers\n• Showcase your work in the community",
	"5":     "Wrapping Up\n\n• AI helps machines think like humans\n• Machine Learning for Kids + Scratch make AI beginner-friendly\n• Your first AI project is ready to expand, share, and improve\n• Keep learning and building amazing AI projects!",
}

// SeedDefaults tạo dữ liệu mặc định cho lần khởi động đầu tiên:
// tài khoản admin, học viên mẫu, khóa học e-book và danh sách exam rỗng.
// Key đã tồn tại thì giữ nguyên.
func SeedDefaults(ctx context.Context, kv kvstore.Store) error {
	if err := seedAdmin(ctx, kv); err != nil {
		return err
	}
	if err := seedStudents(ctx, kv); err != nil {
		return err
	}
	if err := seedCourses(ctx, kv); err != nil {
		return err
	}
	return seedExams(ctx, kv)
}

func seedAdmin(ctx context.Context, kv kvstore.Store) error {
	_, err := kv.Get(ctx, store.KeyAdminCredentials)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}

	log.Println("Khởi tạo tài khoản admin mặc định...")
	return kv.Set(ctx, store.KeyAdminCredentials, models.AdminCredential{
		ID:         "ADMIN001",
		Password:   "admin123",
		FirstLogin: true,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	})
}

func seedStudents(ctx context.Context, kv kvstore.Store) error {
	_, err := kv.Get(ctx, store.KeyStudents)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}

	log.Println("Khởi tạo học viên mẫu...")
	return kv.Set(ctx, store.KeyStudents, []models.Student{
		{ID: "STU001", Name: "John Doe", Email: "john@example.com", Password: "student123", DateRegistered: "2025-01-15", Progress: 45},
		{ID: "STU002", Name: "Jane Smith", Email: "jane@example.com", Password: "student123", DateRegistered: "2025-01-20", Progress: 78},
	})
}

func seedCourses(ctx context.Context, kv kvstore.Store) error {
	_, err := kv.Get(ctx, store.KeyCourses)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}

	log.Println("Khởi tạo khóa học mặc định...")
	chapters := []models.Chapter{
		{ID: "CH1.1", Number: "1.1", Title: "About the Author"},
		{ID: "CH1.2", Number: "1.2", Title: "About This E-Book"},
		{ID: "CH2.1", Number: "2.1", Title: "What is Artificial Intelligence?"},
		{ID: "CH2.2", Number: "2.2", Title: "Importance of AI Today"},
		{ID: "CH2.3", Number: "2.3", Title: "AI Without Coding – An Overview"},
		{ID: "CH3.1", Number: "3.1", Title: "Machine Learning for Kids"},
		{ID: "CH3.1.1", Number: "3.1.1", Title: "Creating Your Account"},
		{ID: "CH3.1.2", Number: "3.1.2", Title: "Navigating the Platform"},
		{ID: "CH3.1.3", Number: "3.1.3", Title: "Connecting ML for Kids with Scratch"},
		{ID: "CH3.2.1", Number: "3.2.1", Title: "Scratch Basics (Navigation & Setup)"},
		{ID: "CH3.2.2", Number: "3.2.2", Title: "Building Your First AI Project in Scratch"},
		{ID: "CH3.2.3", Number: "3.2.3", Title: "Exporting Your Project"},
		{ID: "CH4", Number: "4", Title: "Hosting & Sharing Your AI Project"},
		{ID: "CH5", Number: "5", Title: "Wrapping Up"},
	}
	for i := range chapters {
		chapters[i].Content = defaultCourseContent[chapters[i].Number]
	}

	return kv.Set(ctx, store.KeyCourses, []models.Course{
		{
			ID:          "COURSE001",
			Title:       "A Beginner's Guide to Artificial Intelligence",
			Description: "Learn AI fundamentals through hands-on projects with Machine Learning for Kids and Scratch",
			CoverImage:  "/assets/covers/beginners-guide-ai.png",
			Chapters:    chapters,
			CreatedAt:   "2025-01-01",
		},
	})
}

func seedExams(ctx context.Context, kv kvstore.Store) error {
	_, err := kv.Get(ctx, store.KeyExams)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}
	return kv.Set(ctx, store.KeyExams, []models.Exam{})
}
