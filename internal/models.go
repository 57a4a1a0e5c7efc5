package internal

import (
	"time"
)

// User is the identity row. The role flags are authoritative: detail rows
// (Coach/Athlete/Prospect/Alumni) exist exactly while the matching flag is
// set, kept in sync by the role transition logic.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName string `json:"firstName" gorm:"size:255;not null"`
	LastName  string `json:"lastName" gorm:"size:255;not null"`
	Email     string `json:"email" gorm:"size:255"`

	IsActive   bool `json:"isActive" gorm:"default:true"`
	IsCoach    bool `json:"isCoach" gorm:"default:false"`
	IsAthlete  bool `json:"isAthlete" gorm:"default:false"`
	IsProspect bool `json:"isProspect" gorm:"default:false"`
	IsAlumni   bool `json:"isAlumni" gorm:"default:false"`
	IsScouted  bool `json:"isScouted" gorm:"default:false"`

	Images   *UserImages `json:"images,omitempty" gorm:"foreignKey:UserID"`
	Coach    *Coach      `json:"coach,omitempty" gorm:"foreignKey:UserID"`
	Athlete  *Athlete    `json:"athlete,omitempty" gorm:"foreignKey:UserID"`
	Prospect *Prospect   `json:"prospect,omitempty" gorm:"foreignKey:UserID"`
	Alumni   *Alumni     `json:"alumni,omitempty" gorm:"foreignKey:UserID"`
}

// UserImages holds the four role photo slots. Each slot stores the object key
// next to the public URL so deletes never have to parse URLs.
type UserImages struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userId" gorm:"uniqueIndex;not null"`

	StaffImgUrl    string `json:"staffImgUrl" gorm:"default:''"`
	StaffImgKey    string `json:"-" gorm:"default:''"`
	AthleteImgUrl  string `json:"athleteImgUrl" gorm:"default:''"`
	AthleteImgKey  string `json:"-" gorm:"default:''"`
	ProspectImgUrl string `json:"prospectImgUrl" gorm:"default:''"`
	ProspectImgKey string `json:"-" gorm:"default:''"`
	AlumniImgUrl   string `json:"alumniImgUrl" gorm:"default:''"`
	AlumniImgKey   string `json:"-" gorm:"default:''"`
}

type Coach struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"userId" gorm:"uniqueIndex;not null"`
	Title       string `json:"title" gorm:"default:''"`
	Description string `json:"description" gorm:"default:''"`
	IsSenior    bool   `json:"isSenior" gorm:"default:false"`

	Groups []Group `json:"groups,omitempty" gorm:"many2many:coach_group_lines;"`
}

type Athlete struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     uint   `json:"userId" gorm:"uniqueIndex;not null"`
	SkillLevel string `json:"skillLevel" gorm:"default:''"`

	Scores       []Score       `json:"scores,omitempty" gorm:"foreignKey:AthleteID"`
	Media        []Media       `json:"media,omitempty" gorm:"foreignKey:AthleteID"`
	Achievements []Achievement `json:"achievements,omitempty" gorm:"foreignKey:AthleteID"`
}

// Prospect exists only while the user is also an Athlete, and never together
// with Alumni for the same user.
type Prospect struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UserID         uint   `json:"userId" gorm:"uniqueIndex;not null"`
	GPA            string `json:"gpa" gorm:"default:''"`
	Major          string `json:"major" gorm:"default:''"`
	Institution    string `json:"institution" gorm:"default:''"`
	GraduationYear int    `json:"graduationYear" gorm:"default:0"`
	Instagram      string `json:"instagram" gorm:"default:''"`
	Twitter        string `json:"twitter" gorm:"default:''"`
	YouTube        string `json:"youtube" gorm:"default:''"`
}

type Alumni struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UserID         uint   `json:"userId" gorm:"uniqueIndex;not null"`
	GPA            string `json:"gpa" gorm:"default:''"`
	Major          string `json:"major" gorm:"default:''"`
	Institution    string `json:"institution" gorm:"default:''"`
	GraduationYear int    `json:"graduationYear" gorm:"default:0"`
	Instagram      string `json:"instagram" gorm:"default:''"`
	Twitter        string `json:"twitter" gorm:"default:''"`
	YouTube        string `json:"youtube" gorm:"default:''"`
}

type Score struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	AthleteID uint    `json:"athleteId" gorm:"index;not null"`
	Meet      string  `json:"meet" gorm:"default:''"`
	Event     string  `json:"event" gorm:"default:''"`
	Score     float64 `json:"score" gorm:"default:0"`
	Placement int     `json:"placement" gorm:"default:0"`
	Date      string  `json:"date" gorm:"default:''"`
}

// Media is an athlete gallery item, distinct from the site-wide GalleryItem.
type Media struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	AthleteID         uint   `json:"athleteId" gorm:"index;not null"`
	Type              string `json:"type" gorm:"default:'image'"` // image|video
	MediaUrl          string `json:"mediaUrl" gorm:"default:''"`
	MediaKey          string `json:"-" gorm:"default:''"`
	VideoThumbnail    string `json:"videoThumbnail" gorm:"default:''"`
	VideoThumbnailKey string `json:"-" gorm:"default:''"`
}

type Achievement struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	AthleteID   uint   `json:"athleteId" gorm:"index;not null"`
	Title       string `json:"title" gorm:"default:''"`
	Description string `json:"description" gorm:"default:''"`
	Date        string `json:"date" gorm:"default:''"`
}

type Program struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Category      string `json:"category" gorm:"default:''"` // competitive|recreational
	Name          string `json:"name" gorm:"size:255;not null"`
	Description   string `json:"description" gorm:"default:''"`
	Length        int    `json:"length" gorm:"default:0"`
	AgeMin        int    `json:"ageMin" gorm:"default:0"`
	AgeMax        int    `json:"ageMax" gorm:"default:0"`
	ProgramImgUrl string `json:"programImgUrl" gorm:"default:''"`
	ProgramImgKey string `json:"-" gorm:"default:''"`

	Groups []Group `json:"groups,omitempty" gorm:"foreignKey:ProgramID"`
}

type Group struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProgramID uint   `json:"programId" gorm:"index;not null"`
	Name      string `json:"name" gorm:"default:''"`
	Day       string `json:"day" gorm:"default:''"`
	StartTime string `json:"startTime" gorm:"default:''"`
	EndTime   string `json:"endTime" gorm:"default:''"`
	StartDate string `json:"startDate" gorm:"default:''"`
	EndDate   string `json:"endDate" gorm:"default:''"`
	IsActive  bool   `json:"isActive" gorm:"default:true"`

	Coaches []Coach `json:"coaches,omitempty" gorm:"many2many:coach_group_lines;"`
}

// CoachGroupLine is the coach<->group join table. Declared explicitly so the
// cascade cleanup can delete rows by coach or group id.
type CoachGroupLine struct {
	CoachID uint `json:"coachId" gorm:"primaryKey"`
	GroupID uint `json:"groupId" gorm:"primaryKey"`
}

type Tryout struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"createdAt"`
	FirstName   string    `json:"firstName" gorm:"size:255;not null"`
	LastName    string    `json:"lastName" gorm:"size:255;not null"`
	Age         int       `json:"age" gorm:"default:0"`
	Experience  string    `json:"experience" gorm:"default:''"`
	ClubHistory string    `json:"clubHistory" gorm:"default:''"`
	Email       string    `json:"email" gorm:"default:''"`
	Phone       string    `json:"phone" gorm:"default:''"`
	Message     string    `json:"message" gorm:"default:''"`
	ReadStatus  bool      `json:"readStatus" gorm:"default:false"`
}

type GalleryItem struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	Name              string `json:"name" gorm:"default:''"`
	Description       string `json:"description" gorm:"default:''"`
	Date              string `json:"date" gorm:"default:''"`
	Type              string `json:"type" gorm:"default:'image'"` // image|video
	MediaUrl          string `json:"mediaUrl" gorm:"default:''"`
	MediaKey          string `json:"-" gorm:"default:''"`
	VideoThumbnail    string `json:"videoThumbnail" gorm:"default:''"`
	VideoThumbnailKey string `json:"-" gorm:"default:''"`
}

type Sponsor struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"size:255;not null"`
	Tier       string `json:"tier" gorm:"default:''"`
	Website    string `json:"website" gorm:"default:''"`
	LogoUrl    string `json:"logoUrl" gorm:"default:''"`
	LogoKey    string `json:"-" gorm:"default:''"`
	Highlights string `json:"highlights" gorm:"default:''"`
}

type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"size:255;not null"`
	Category    string  `json:"category" gorm:"default:''"`
	Description string  `json:"description" gorm:"default:''"`
	Price       float64 `json:"price" gorm:"default:0"`
	ImageUrl    string  `json:"imageUrl" gorm:"default:''"`
	ImageKey    string  `json:"-" gorm:"default:''"`
}

// AdminUser is a back-office login, separate from the public User roster.
type AdminUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PassHash  string    `json:"-" gorm:"not null"`
}

type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	ActorID   *uint     `json:"actorId"`
	Action    string    `json:"action" gorm:"default:''"`
	Details   string    `json:"details" gorm:"default:''"`
}

func allModels() []any {
	return []any{
		&User{}, &UserImages{}, &Coach{}, &Athlete{}, &Prospect{}, &Alumni{},
		&Score{}, &Media{}, &Achievement{},
		&Program{}, &Group{}, &CoachGroupLine{},
		&Tryout{}, &GalleryItem{}, &Sponsor{}, &Product{},
		&AdminUser{}, &AuditLog{},
	}
}
