// Package seed holds the built-in demo catalog: the courses, classrooms
// and teachers shown on the marketplace pages plus a handful of demo
// accounts.  It backs CATALOG_SOURCE=seed and the seed migration.
package seed

import (
	"time"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// Items returns a fresh copy of the seed catalog of one kind, in
// insertion order.
func Items(kind model.Kind) []model.Item {
	var src []model.Item
	switch kind {
	case model.KindCourse:
		src = courses
	case model.KindClassroom:
		src = classrooms
	case model.KindTeacher:
		src = teachers
	}
	out := make([]model.Item, len(src))
	for i, it := range src {
		out[i] = it
		if it.StartsAt != nil {
			t := *it.StartsAt
			out[i].StartsAt = &t
		}
	}
	return out
}

// All returns every seed item across all kinds.
func All() []model.Item {
	var out []model.Item
	for _, k := range []model.Kind{model.KindCourse, model.KindClassroom, model.KindTeacher} {
		out = append(out, Items(k)...)
	}
	return out
}

// Users returns the demo accounts.
func Users() []model.User {
	return append([]model.User(nil), users...)
}

var epoch = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

func created(days int) time.Time { return epoch.AddDate(0, 0, days) }

func at(day, hour, minute int) *time.Time {
	t := time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
	return &t
}

var (
	tanaka    = model.Instructor{Name: "Tanaka Yuki", Avatar: "/avatars/tanaka.jpg"}
	sato      = model.Instructor{Name: "Sato Haruka", Avatar: "/avatars/sato.jpg"}
	suzuki    = model.Instructor{Name: "Suzuki Kenji", Avatar: "/avatars/suzuki.jpg"}
	watanabe  = model.Instructor{Name: "Watanabe Aiko", Avatar: "/avatars/watanabe.jpg"}
	yamamoto  = model.Instructor{Name: "Yamamoto Ren", Avatar: "/avatars/yamamoto.jpg"}
	nakamura  = model.Instructor{Name: "Nakamura Mei", Avatar: "/avatars/nakamura.jpg"}
	kobayashi = model.Instructor{Name: "Kobayashi Daichi", Avatar: "/avatars/kobayashi.jpg"}
	ito       = model.Instructor{Name: "Ito Sakura", Avatar: "/avatars/ito.jpg"}
)

var courses = []model.Item{
	{ID: 1, Kind: model.KindCourse, Title: "Hiragana & Katakana Fundamentals", Description: "Read and write both kana scripts in four weeks.", Instructor: tanaka, Level: model.LevelBeginner, Category: "Writing", Status: model.StatusActive, Price: 0, Rating: 4.8, StudentsCount: 3120, CreatedAt: created(0)},
	{ID: 2, Kind: model.KindCourse, Title: "JLPT N5 Complete Preparation", Description: "Grammar, vocabulary and listening drills for the N5 exam.", Instructor: sato, Level: model.LevelBeginner, Category: "JLPT", Status: model.StatusActive, Price: 49.99, Rating: 4.7, StudentsCount: 2210, CreatedAt: created(3)},
	{ID: 3, Kind: model.KindCourse, Title: "Everyday Conversation Japanese", Description: "Ordering food, asking directions and small talk.", Instructor: watanabe, Level: model.LevelElementary, Category: "Conversation", Status: model.StatusActive, Price: 39, Rating: 4.6, StudentsCount: 1875, CreatedAt: created(7)},
	{ID: 4, Kind: model.KindCourse, Title: "Kanji in Context: 300 Essentials", Description: "Learn kanji through compounds and example sentences.", Instructor: suzuki, Level: model.LevelElementary, Category: "Kanji", Status: model.StatusActive, Price: 59, Rating: 4.5, StudentsCount: 1340, CreatedAt: created(12)},
	{ID: 5, Kind: model.KindCourse, Title: "JLPT N3 Grammar Intensive", Description: "Every N3 grammar point with graded practice.", Instructor: sato, Level: model.LevelIntermediate, Category: "JLPT", Status: model.StatusActive, Price: 79, Rating: 4.9, StudentsCount: 980, CreatedAt: created(20)},
	{ID: 6, Kind: model.KindCourse, Title: "Business Japanese & Keigo", Description: "Honorific speech for meetings, email and phone calls.", Instructor: yamamoto, Level: model.LevelAdvanced, Category: "Business", Status: model.StatusActive, Price: 129, Rating: 4.4, StudentsCount: 540, CreatedAt: created(26)},
	{ID: 7, Kind: model.KindCourse, Title: "Anime Japanese: Casual Speech", Description: "Contractions, slang and sentence endings heard on screen.", Instructor: nakamura, Level: model.LevelIntermediate, Category: "Culture", Status: model.StatusActive, Price: 25, Rating: 4.3, StudentsCount: 2650, CreatedAt: created(31)},
	{ID: 8, Kind: model.KindCourse, Title: "Reading Newspapers in Japanese", Description: "Headline grammar and current-affairs vocabulary.", Instructor: kobayashi, Level: model.LevelAdvanced, Category: "Reading", Status: model.StatusActive, Price: 99, Rating: 4.6, StudentsCount: 410, CreatedAt: created(38)},
	{ID: 9, Kind: model.KindCourse, Title: "Pitch Accent Workshop", Description: "Hear and reproduce Tokyo pitch accent patterns.", Instructor: ito, Level: model.LevelAll, Category: "Pronunciation", Status: model.StatusActive, Price: 45, Rating: 4.7, StudentsCount: 760, CreatedAt: created(44)},
	{ID: 10, Kind: model.KindCourse, Title: "JLPT N1 Reading Strategies", Description: "Time management and question patterns for N1 reading.", Instructor: suzuki, Level: model.LevelAdvanced, Category: "JLPT", Status: model.StatusDraft, Price: 149, Rating: 0, StudentsCount: 0, CreatedAt: created(51)},
	{ID: 11, Kind: model.KindCourse, Title: "Travel Japanese Survival Kit", Description: "Phrases for trains, hotels and restaurants.", Instructor: watanabe, Level: model.LevelBeginner, Category: "Conversation", Status: model.StatusActive, Price: 0, Rating: 4.2, StudentsCount: 4020, CreatedAt: created(57)},
	{ID: 12, Kind: model.KindCourse, Title: "Classical Japanese Primer", Description: "Bungo grammar for reading older literature.", Instructor: kobayashi, Level: model.LevelAdvanced, Category: "Reading", Status: model.StatusArchived, Price: 69, Rating: 4.1, StudentsCount: 150, CreatedAt: created(63)},
}

var classrooms = []model.Item{
	{ID: 101, Kind: model.KindClassroom, Title: "Morning Kana Bootcamp", Description: "Daily drills on hiragana and katakana.", Instructor: tanaka, Level: model.LevelBeginner, Category: "Writing", Status: model.StatusUpcoming, Price: 0, Rating: 4.7, StudentsCount: 12, EnrolledStudents: 12, MaxStudents: 20, StartsAt: at(10, 7, 30), CreatedAt: created(40)},
	{ID: 102, Kind: model.KindClassroom, Title: "N5 Grammar Live Q&A", Description: "Bring your questions on particles and verb forms.", Instructor: sato, Level: model.LevelBeginner, Category: "JLPT", Status: model.StatusLive, Price: 15, Rating: 4.8, StudentsCount: 18, EnrolledStudents: 18, MaxStudents: 25, StartsAt: at(10, 13, 0), CreatedAt: created(42)},
	{ID: 103, Kind: model.KindClassroom, Title: "Conversation Café", Description: "Relaxed small-group speaking practice.", Instructor: watanabe, Level: model.LevelElementary, Category: "Conversation", Status: model.StatusUpcoming, Price: 20, Rating: 4.6, StudentsCount: 6, EnrolledStudents: 6, MaxStudents: 8, StartsAt: at(11, 19, 0), CreatedAt: created(45)},
	{ID: 104, Kind: model.KindClassroom, Title: "Kanji Sprint: Radicals", Description: "Break kanji into radicals and remember them faster.", Instructor: suzuki, Level: model.LevelElementary, Category: "Kanji", Status: model.StatusFull, Price: 35, Rating: 4.5, StudentsCount: 15, EnrolledStudents: 15, MaxStudents: 15, StartsAt: at(12, 9, 0), CreatedAt: created(47)},
	{ID: 105, Kind: model.KindClassroom, Title: "Keigo Role-play Lab", Description: "Practice business honorifics in simulated meetings.", Instructor: yamamoto, Level: model.LevelAdvanced, Category: "Business", Status: model.StatusUpcoming, Price: 75, Rating: 4.4, StudentsCount: 4, EnrolledStudents: 4, MaxStudents: 10, StartsAt: at(12, 18, 30), CreatedAt: created(50)},
	{ID: 106, Kind: model.KindClassroom, Title: "Anime Scene Shadowing", Description: "Shadow short scenes to improve rhythm and intonation.", Instructor: nakamura, Level: model.LevelIntermediate, Category: "Culture", Status: model.StatusUpcoming, Price: 10, Rating: 4.2, StudentsCount: 22, EnrolledStudents: 22, MaxStudents: 30, StartsAt: at(13, 15, 0), CreatedAt: created(52)},
	{ID: 107, Kind: model.KindClassroom, Title: "N3 Reading Circle", Description: "Read graded articles together and discuss them.", Instructor: kobayashi, Level: model.LevelIntermediate, Category: "Reading", Status: model.StatusUpcoming, Price: 55, Rating: 4.6, StudentsCount: 9, EnrolledStudents: 9, MaxStudents: 12, StartsAt: at(14, 11, 0), CreatedAt: created(55)},
	{ID: 108, Kind: model.KindClassroom, Title: "Pitch Accent Clinic", Description: "One-on-few feedback on your recordings.", Instructor: ito, Level: model.LevelAll, Category: "Pronunciation", Status: model.StatusUpcoming, Price: 120, Rating: 4.9, StudentsCount: 3, EnrolledStudents: 3, MaxStudents: 5, StartsAt: at(14, 20, 0), CreatedAt: created(58)},
	{ID: 109, Kind: model.KindClassroom, Title: "Late Night Listening Lounge", Description: "Podcast listening practice for night owls.", Instructor: nakamura, Level: model.LevelAll, Category: "Listening", Status: model.StatusUpcoming, Price: 0, Rating: 4.0, StudentsCount: 7, EnrolledStudents: 7, MaxStudents: 40, StartsAt: at(15, 2, 0), CreatedAt: created(60)},
	{ID: 110, Kind: model.KindClassroom, Title: "JLPT N2 Mock Exam Review", Description: "Walk through a full mock exam section by section.", Instructor: sato, Level: model.LevelAdvanced, Category: "JLPT", Status: model.StatusUpcoming, Price: 45, Rating: 4.7, StudentsCount: 11, EnrolledStudents: 11, MaxStudents: 20, StartsAt: at(16, 10, 0), CreatedAt: created(62)},
}

var teachers = []model.Item{
	{ID: 201, Kind: model.KindTeacher, Title: tanaka.Name, Description: "Specialises in absolute beginners and kana.", Instructor: tanaka, Level: model.LevelBeginner, Category: "Writing", Status: model.StatusAvailable, Price: 25, Rating: 4.8, StudentsCount: 3400, CreatedAt: created(1)},
	{ID: 202, Kind: model.KindTeacher, Title: sato.Name, Description: "JLPT coach from N5 to N2.", Instructor: sato, Level: model.LevelAll, Category: "JLPT", Status: model.StatusAvailable, Price: 40, Rating: 4.9, StudentsCount: 3200, CreatedAt: created(2)},
	{ID: 203, Kind: model.KindTeacher, Title: suzuki.Name, Description: "Kanji and reading, with a love of etymology.", Instructor: suzuki, Level: model.LevelIntermediate, Category: "Kanji", Status: model.StatusUnavailable, Price: 35, Rating: 4.5, StudentsCount: 1750, CreatedAt: created(4)},
	{ID: 204, Kind: model.KindTeacher, Title: watanabe.Name, Description: "Conversation partner for travellers and expats.", Instructor: watanabe, Level: model.LevelElementary, Category: "Conversation", Status: model.StatusAvailable, Price: 0, Rating: 4.6, StudentsCount: 5900, CreatedAt: created(5)},
	{ID: 205, Kind: model.KindTeacher, Title: yamamoto.Name, Description: "Former recruiter teaching business Japanese.", Instructor: yamamoto, Level: model.LevelAdvanced, Category: "Business", Status: model.StatusAvailable, Price: 110, Rating: 4.4, StudentsCount: 540, CreatedAt: created(9)},
	{ID: 206, Kind: model.KindTeacher, Title: nakamura.Name, Description: "Pop culture, slang and listening practice.", Instructor: nakamura, Level: model.LevelIntermediate, Category: "Culture", Status: model.StatusAvailable, Price: 20, Rating: 4.3, StudentsCount: 2680, CreatedAt: created(14)},
	{ID: 207, Kind: model.KindTeacher, Title: kobayashi.Name, Description: "Literature and newspaper reading.", Instructor: kobayashi, Level: model.LevelAdvanced, Category: "Reading", Status: model.StatusUnavailable, Price: 65, Rating: 4.6, StudentsCount: 560, CreatedAt: created(18)},
	{ID: 208, Kind: model.KindTeacher, Title: ito.Name, Description: "Phonetics graduate focused on pitch accent.", Instructor: ito, Level: model.LevelAll, Category: "Pronunciation", Status: model.StatusAvailable, Price: 50, Rating: 4.7, StudentsCount: 760, CreatedAt: created(23)},
}

var users = []model.User{
	{ID: 1, Name: "Emma Learner", Email: "learner@nihongo-sekai.test", Role: model.RoleLearner},
	{ID: 2, Name: "Tanaka Yuki", Email: "tanaka@nihongo-sekai.test", Role: model.RolePartner, Avatar: tanaka.Avatar},
	{ID: 3, Name: "Sato Haruka", Email: "sato@nihongo-sekai.test", Role: model.RolePartner, Avatar: sato.Avatar},
	{ID: 4, Name: "Site Admin", Email: "admin@nihongo-sekai.test", Role: model.RoleAdmin},
}
